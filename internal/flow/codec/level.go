package codec

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// Magic is the tag every level definition starts with.
const Magic = "CLFL"

const (
	headerSize = 20

	// wallIndexBits is the width of the cell index in a packed wall record.
	wallIndexBits = 12
	maxWallIndex  = 1<<wallIndexBits - 1
)

// Level is a decoded level definition: the board structure without any
// drawn paths.
type Level struct {
	Width  int
	Height int
	Wrap   bool

	// Sources holds the two endpoint cells of each color; index 0 is color 1.
	Sources [][2]int
	Bridges []int
	Holes   []int
	Walls   map[int]core.DirMask

	// Solution optionally lists, per color, the cells of a solved path from
	// the first source to the second. Binary definitions never carry it.
	Solution [][]int
}

// Colors returns the number of colors.
func (l *Level) Colors() int {
	return len(l.Sources)
}

// Cells returns the number of cells.
func (l *Level) Cells() int {
	return l.Width * l.Height
}

// ParseLevel decodes a level definition buffer.
func ParseLevel(data []byte) (*Level, error) {
	if len(data) < headerSize {
		return nil, formatErr(ErrTruncated, len(data), "header needs %d bytes", headerSize)
	}
	if string(data[0:4]) != Magic {
		return nil, formatErr(ErrBadMagic, 0, "got %q", data[0:4])
	}

	l := &Level{
		Width:  int(data[4]),
		Height: int(data[5]),
		Wrap:   data[7] != 0,
		Walls:  make(map[int]core.DirMask),
	}
	colors := int(data[6])
	if l.Width == 0 || l.Height == 0 {
		return nil, formatErr(ErrOutOfRange, 4, "board is %dx%d", l.Width, l.Height)
	}
	if colors > int(core.MaxColor) {
		return nil, formatErr(ErrOutOfRange, 6, "%d colors exceed the limit of %d", colors, core.MaxColor)
	}

	bridgeCount := binary.LittleEndian.Uint32(data[8:])
	holeCount := binary.LittleEndian.Uint32(data[12:])
	wallCount := binary.LittleEndian.Uint32(data[16:])

	need := uint64(headerSize) + 4*uint64(colors) + 2*(uint64(bridgeCount)+uint64(holeCount)+uint64(wallCount))
	if need > uint64(len(data)) {
		return nil, formatErr(ErrTruncated, len(data), "definition needs %d bytes", need)
	}

	cells := l.Cells()
	off := headerSize
	readIndex := func(what string) (int, error) {
		v := int(binary.LittleEndian.Uint16(data[off:]))
		if v >= cells {
			return 0, formatErr(ErrOutOfRange, off, "%s cell %d on a %d-cell board", what, v, cells)
		}
		off += 2
		return v, nil
	}

	l.Sources = make([][2]int, colors)
	for i := range l.Sources {
		for j := 0; j < 2; j++ {
			v, err := readIndex("source")
			if err != nil {
				return nil, err
			}
			l.Sources[i][j] = v
		}
	}

	l.Bridges = make([]int, 0, bridgeCount)
	for range bridgeCount {
		v, err := readIndex("bridge")
		if err != nil {
			return nil, err
		}
		l.Bridges = append(l.Bridges, v)
	}

	l.Holes = make([]int, 0, holeCount)
	for range holeCount {
		v, err := readIndex("hole")
		if err != nil {
			return nil, err
		}
		l.Holes = append(l.Holes, v)
	}

	for range wallCount {
		rec := binary.LittleEndian.Uint16(data[off:])
		idx := int(rec & maxWallIndex)
		if idx >= cells {
			return nil, formatErr(ErrOutOfRange, off, "wall cell %d on a %d-cell board", idx, cells)
		}
		l.Walls[idx] |= core.DirMask(rec >> wallIndexBits)
		off += 2
	}

	return l, nil
}

// DecodeLevel decodes a level definition straight into a board.
// On failure it returns an invalid board along with the error, so callers
// that keep per-level slots can store the result either way.
func DecodeLevel(data []byte) (*core.Board, error) {
	l, err := ParseLevel(data)
	if err != nil {
		return core.InvalidBoard(), err
	}
	return l.Board(), nil
}

// Board builds the playable board. A cell is classified as a hole, else a
// bridge, else a source; walls apply regardless. When two colors claim the
// same source cell the lower color wins.
func (l *Level) Board() *core.Board {
	b := core.NewBoard(l.Width, l.Height, l.Colors(), l.Wrap)

	holes := make(map[int]bool, len(l.Holes))
	for _, h := range l.Holes {
		holes[h] = true
	}
	bridges := make(map[int]bool, len(l.Bridges))
	for _, br := range l.Bridges {
		bridges[br] = true
	}
	sources := make(map[int]core.Color, 2*len(l.Sources))
	for i, pair := range l.Sources {
		for _, idx := range pair {
			if _, taken := sources[idx]; !taken {
				sources[idx] = core.Color(i + 1)
			}
		}
	}

	for idx := 0; idx < b.Len(); idx++ {
		c := b.Cell(idx)
		if col, ok := sources[idx]; holes[idx] {
			c.Hole = true
		} else if bridges[idx] {
			c.Bridge = true
		} else if ok {
			c.Source = true
			c.Color = col
		}
		c.Walls = l.Walls[idx]
	}

	return b
}

// EncodeLevel writes a level definition buffer. Lists are written in
// ascending order and the result is zero-padded to a multiple of 4 bytes.
func EncodeLevel(l *Level) ([]byte, error) {
	if l.Width <= 0 || l.Width > 255 || l.Height <= 0 || l.Height > 255 {
		return nil, fmt.Errorf("codec: board %dx%d: %w", l.Width, l.Height, ErrOutOfRange)
	}
	if l.Colors() > 255 {
		return nil, fmt.Errorf("codec: %d colors: %w", l.Colors(), ErrOutOfRange)
	}

	cells := l.Cells()
	check := func(what string, idx int) error {
		if idx < 0 || idx >= cells || idx > 0xFFFF {
			return fmt.Errorf("codec: %s cell %d on a %d-cell board: %w", what, idx, cells, ErrOutOfRange)
		}
		return nil
	}

	wallIdx := make([]int, 0, len(l.Walls))
	for idx, m := range l.Walls {
		if m == 0 {
			continue
		}
		if err := check("wall", idx); err != nil {
			return nil, err
		}
		if idx > maxWallIndex {
			return nil, fmt.Errorf("codec: wall cell %d does not fit %d bits: %w", idx, wallIndexBits, ErrOutOfRange)
		}
		wallIdx = append(wallIdx, idx)
	}
	slices.Sort(wallIdx)

	bridges := slices.Sorted(slices.Values(l.Bridges))
	holes := slices.Sorted(slices.Values(l.Holes))

	out := make([]byte, 0, headerSize+4*l.Colors()+2*(len(bridges)+len(holes)+len(wallIdx))+3)
	out = append(out, Magic...)
	wrap := byte(0)
	if l.Wrap {
		wrap = 1
	}
	out = append(out, byte(l.Width), byte(l.Height), byte(l.Colors()), wrap)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(bridges)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(holes)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(wallIdx)))

	for _, pair := range l.Sources {
		for _, idx := range pair {
			if err := check("source", idx); err != nil {
				return nil, err
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(idx))
		}
	}
	for _, idx := range bridges {
		if err := check("bridge", idx); err != nil {
			return nil, err
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(idx))
	}
	for _, idx := range holes {
		if err := check("hole", idx); err != nil {
			return nil, err
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(idx))
	}
	for _, idx := range wallIdx {
		rec := uint16(l.Walls[idx]&0xF)<<wallIndexBits | uint16(idx)
		out = binary.LittleEndian.AppendUint16(out, rec)
	}

	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out, nil
}

// LevelFromBoard recovers the structure of a board as a level definition.
// Every color must have exactly two sources.
func LevelFromBoard(b *core.Board) (*Level, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("codec: cannot describe an invalid board")
	}

	l := &Level{
		Width:   b.Width(),
		Height:  b.Height(),
		Wrap:    b.Wrap(),
		Sources: make([][2]int, b.Colors()),
		Walls:   make(map[int]core.DirMask),
	}
	for i, idxs := range b.SourcePairs() {
		if len(idxs) != 2 {
			return nil, fmt.Errorf("codec: color %d has %d sources, want 2", i+1, len(idxs))
		}
		l.Sources[i] = [2]int{idxs[0], idxs[1]}
	}
	for idx, c := range b.Cells() {
		switch {
		case c.Hole:
			l.Holes = append(l.Holes, idx)
		case c.Bridge:
			l.Bridges = append(l.Bridges, idx)
		}
		if c.Walls != 0 {
			l.Walls[idx] = c.Walls
		}
	}
	return l, nil
}
