package codec

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// Save word layout, one uint16 per cell:
//
//	bits 0-3   connection mask
//	bits 4-8   color
//	bits 9-10  overlay halves (bridges only)
//	bits 11-15 overlay color (bridges only)
const (
	connShift         = 0
	colorShift        = 4
	overlayShift      = 9
	overlayColorShift = 11

	connBits  = 0xF
	colorBits = 0x1F
	halfBits  = 0x3
)

// Layout selects which cells get a save word.
type Layout int

const (
	// LayoutCompact writes one word per non-hole cell.
	LayoutCompact Layout = iota
	// LayoutFull writes one word per cell, zero for holes. Save archives
	// from the handheld release use this layout.
	LayoutFull
)

// String returns the config name of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutCompact:
		return "compact"
	case LayoutFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseLayout converts a config name to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "compact":
		return LayoutCompact, nil
	case "full":
		return LayoutFull, nil
	default:
		return LayoutCompact, fmt.Errorf("codec: unknown save layout %q", s)
	}
}

// PackCell packs the play state of a cell into a save word.
func PackCell(c core.Cell) uint16 {
	w := uint16(c.Conn&connBits) << connShift
	w |= uint16(c.Color&colorBits) << colorShift
	if c.Bridge {
		w |= uint16(c.Overlay&halfBits) << overlayShift
		w |= uint16(c.OverlayColor&colorBits) << overlayColorShift
	}
	return w
}

// UnpackCell restores play state from a save word. Structure (walls, hole,
// bridge, source flags) is left alone, and so is the fixed color of a
// source.
func UnpackCell(c *core.Cell, w uint16) {
	c.Conn = core.DirMask(w>>connShift) & connBits
	if !c.Source {
		c.Color = core.Color(w>>colorShift) & colorBits
	}
	if c.Bridge {
		c.Overlay = core.Overlay(w>>overlayShift) & halfBits
		c.OverlayColor = core.Color(w>>overlayColorShift) & colorBits
	}
}

// wordCount returns how many save words a board takes under layout.
func wordCount(b *core.Board, layout Layout) int {
	if layout == LayoutFull {
		return b.Len()
	}
	n := 0
	for _, c := range b.Cells() {
		if !c.Hole {
			n++
		}
	}
	return n
}

// SaveSize returns the byte size of a board's save data under layout.
func SaveSize(b *core.Board, layout Layout) int {
	return 2 * wordCount(b, layout)
}

// AppendBoardSave appends the save words of b to dst.
func AppendBoardSave(dst []byte, b *core.Board, layout Layout) []byte {
	for _, c := range b.Cells() {
		switch {
		case !c.Hole:
			dst = binary.LittleEndian.AppendUint16(dst, PackCell(c))
		case layout == LayoutFull:
			dst = binary.LittleEndian.AppendUint16(dst, 0)
		}
	}
	return dst
}

// DecodeBoardSave applies save words from data to b and returns the number
// of bytes consumed. The board is untouched when data is too short.
func DecodeBoardSave(b *core.Board, data []byte, layout Layout) (int, error) {
	size := SaveSize(b, layout)
	if len(data) < size {
		return 0, fmt.Errorf("codec: board needs %d bytes, have %d: %w", size, len(data), ErrShortSave)
	}

	off := 0
	for idx := 0; idx < b.Len(); idx++ {
		c := b.Cell(idx)
		if c.Hole {
			if layout == LayoutFull {
				off += 2
			}
			continue
		}
		UnpackCell(c, binary.LittleEndian.Uint16(data[off:]))
		off += 2
	}
	return off, nil
}

// EncodeSave concatenates the save data of every board in order.
func EncodeSave(boards []*core.Board, layout Layout) []byte {
	total := 0
	for _, b := range boards {
		total += SaveSize(b, layout)
	}
	out := make([]byte, 0, total)
	for _, b := range boards {
		out = AppendBoardSave(out, b, layout)
	}
	return out
}

// DecodeSave applies a pack save buffer to boards in order. Nothing is
// modified unless the buffer covers every board; trailing bytes are ignored.
func DecodeSave(boards []*core.Board, data []byte, layout Layout) error {
	total := 0
	for _, b := range boards {
		total += SaveSize(b, layout)
	}
	if len(data) < total {
		return fmt.Errorf("codec: pack needs %d bytes, have %d: %w", total, len(data), ErrShortSave)
	}

	off := 0
	for i, b := range boards {
		n, err := DecodeBoardSave(b, data[off:], layout)
		if err != nil {
			return fmt.Errorf("codec: level %d: %w", i, err)
		}
		off += n
	}
	return nil
}
