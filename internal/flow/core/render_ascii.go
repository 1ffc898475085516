package core

import (
	"fmt"
	"strings"
)

// RenderASCII creates a text representation of the board.
// This is used for debugging, the CLI dump and golden tests.
//
// Format:
//   - Cells: source='A'..'Z' (color letter), path='a'..'z', bridge='+',
//     empty='.', hole=' '
//   - Links between cells: '-' horizontal, '|' vertical, '#' wall, ' ' none
//   - Links across the wrap seam are not drawn
func RenderASCII(b *Board) string {
	var sb strings.Builder

	if !b.Valid() {
		return "(invalid board)\n"
	}

	sb.WriteString(fmt.Sprintf("%dx%d colors=%d wrap=%t complete=%t\n",
		b.width, b.height, b.colors, b.wrap, b.Completed()))

	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			idx := b.Index(x, y)
			sb.WriteByte(CellChar(b.cells[idx]))
			if x < b.width-1 {
				sb.WriteByte(b.linkChar(idx, East))
			}
		}
		sb.WriteByte('\n')

		if y == b.height-1 {
			break
		}
		for x := 0; x < b.width; x++ {
			sb.WriteByte(b.linkChar(b.Index(x, y), South))
			if x < b.width-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// CellChar returns the single character used for a cell in dumps.
func CellChar(c Cell) byte {
	switch {
	case c.Hole:
		return ' '
	case c.Source:
		return c.Color.Char()
	case c.Bridge:
		return '+'
	case c.Connected():
		return c.Color.LowerChar()
	default:
		return '.'
	}
}

// linkChar returns the separator drawn between idx and its neighbor in d.
func (b *Board) linkChar(idx int, d Dir) byte {
	c := b.cells[idx]
	switch {
	case c.LayerHas(d):
		if d.Vertical() {
			return '|'
		}
		return '-'
	case c.Walls.Has(d):
		return '#'
	default:
		return ' '
	}
}
