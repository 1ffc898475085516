package core

import "fmt"

// Board is a rectangular, optionally toroidal grid of cells.
// Cells are stored in row-major order: index = y*Width + x.
// Dimensions and the wrap flag never change after construction.
type Board struct {
	width  int
	height int
	colors int
	wrap   bool
	valid  bool
	cells  []Cell
}

// NewBoard creates a board with the given dimensions and empty cells.
func NewBoard(width, height, colors int, wrap bool) *Board {
	return &Board{
		width:  width,
		height: height,
		colors: colors,
		wrap:   wrap,
		valid:  true,
		cells:  make([]Cell, width*height),
	}
}

// InvalidBoard returns a board with no cells flagged as unplayable.
// It stands in for a level whose definition failed to decode.
func InvalidBoard() *Board {
	return &Board{}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Colors returns the number of flow colors on the board.
func (b *Board) Colors() int { return b.colors }

// Wrap reports whether the board edges connect to the opposite edge.
func (b *Board) Wrap() bool { return b.wrap }

// Valid reports whether the board was built from a well-formed definition.
func (b *Board) Valid() bool { return b.valid }

// Len returns the number of cells.
func (b *Board) Len() int { return len(b.cells) }

// Cell returns a pointer to the cell at idx for in-place edits.
func (b *Board) Cell(idx int) *Cell {
	return &b.cells[idx]
}

// At returns the cell at (x, y).
func (b *Board) At(x, y int) *Cell {
	return &b.cells[b.Index(x, y)]
}

// Cells returns the backing cell slice.
func (b *Board) Cells() []Cell {
	return b.cells
}

// Index converts (x, y) to a cell index.
func (b *Board) Index(x, y int) int {
	return y*b.width + x
}

// XY converts a cell index to (x, y).
func (b *Board) XY(idx int) (x, y int) {
	return idx % b.width, idx / b.width
}

// InBounds reports whether idx addresses a cell.
func (b *Board) InBounds(idx int) bool {
	return idx >= 0 && idx < len(b.cells)
}

// onEdge reports whether idx sits on the board edge facing d.
func (b *Board) onEdge(idx int, d Dir) bool {
	x, y := b.XY(idx)
	switch d {
	case North:
		return y == 0
	case South:
		return y == b.height-1
	case West:
		return x == 0
	case East:
		return x == b.width-1
	}
	return false
}

// Neighbor resolves the cell reached from idx by moving in direction d.
//
// With respectWalls a wall on d refuses the move (idx is returned). Edges
// wrap to the opposite side when the board wraps or when walls are not
// respected, so free cursor movement always wraps. A path move off the edge
// of a non-wrapping board is refused.
func (b *Board) Neighbor(idx int, d Dir, respectWalls bool) int {
	if respectWalls && b.cells[idx].Walls.Has(d) {
		return idx
	}
	if b.onEdge(idx, d) {
		if !b.wrap && respectWalls {
			return idx
		}
		x, y := b.XY(idx)
		switch d {
		case North:
			return b.Index(x, b.height-1)
		case South:
			return b.Index(x, 0)
		case West:
			return b.Index(b.width-1, y)
		case East:
			return b.Index(0, y)
		}
		return idx
	}
	dx, dy := d.Delta()
	x, y := b.XY(idx)
	return b.Index(x+dx, y+dy)
}

// Link returns the cell a connection toward d attaches to, ignoring walls,
// or idx when d leads off the edge of a non-wrapping board. Walls only guard
// the cell a move starts from, so an existing connection may cross a wall
// recorded on one side only.
func (b *Board) Link(idx int, d Dir) int {
	if b.onEdge(idx, d) && !b.wrap {
		return idx
	}
	return b.Neighbor(idx, d, false)
}

// DirectionTo returns the direction that leads from a to its neighbor b
// under path rules (walls respected), or false if they are not adjacent.
func (b *Board) DirectionTo(from, to int) (Dir, bool) {
	for _, d := range AllDirs {
		if n := b.Neighbor(from, d, true); n != from && n == to {
			return d, true
		}
	}
	return 0, false
}

// Completed reports whether every cell is complete.
func (b *Board) Completed() bool {
	if !b.valid {
		return false
	}
	for _, c := range b.cells {
		if !c.Complete() {
			return false
		}
	}
	return true
}

// Reset clears every drawn connection, keeping walls, holes, bridges and
// source colors.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i].clear()
	}
}

// RemoveSingleConnection clears the one connection held by the layer of idx
// selected by vertical (only meaningful for bridges) and the matching bit on
// the neighbor. It is meant for loose ends: cells with at most one
// connection on that layer.
func (b *Board) RemoveSingleConnection(idx int, vertical bool) {
	c := &b.cells[idx]

	if c.Bridge && !vertical {
		if c.Overlay == OverlayNone {
			return
		}
		// East half is checked first, matching the order paths are unwound.
		d := West
		if c.Overlay&OverlayEast != 0 {
			d = East
		}
		b.dropNeighborBit(idx, d)
		c.Overlay = OverlayNone
		c.OverlayColor = NoColor
		return
	}

	if !c.Connected() {
		return
	}
	d := c.Conn.First()
	if c.Bridge {
		// Only north/south live on the primary layer of a bridge.
		d = North
		if !c.Conn.Has(North) {
			d = South
		}
	}
	b.dropNeighborBit(idx, d)
	c.Conn = 0
	if !c.Source {
		c.Color = NoColor
	}
}

// dropNeighborBit removes the connection pointing back at idx from the
// neighbor in direction d.
func (b *Board) dropNeighborBit(idx int, d Dir) {
	n := b.Link(idx, d)
	if n == idx {
		return
	}
	b.cells[n].removeDirection(d.Opposite())
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	clone := *b
	clone.cells = cells
	return &clone
}

// Equal reports whether two boards have the same shape and cell state.
func (b *Board) Equal(other *Board) bool {
	if b.width != other.width || b.height != other.height ||
		b.colors != other.colors || b.wrap != other.wrap ||
		b.valid != other.valid || len(b.cells) != len(other.cells) {
		return false
	}
	for i, c := range b.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

// AsymmetricEdge describes a connection bit with no matching bit on the
// neighbor.
type AsymmetricEdge struct {
	From int
	To   int
	Dir  Dir
}

func (e AsymmetricEdge) Error() string {
	return fmt.Sprintf("cell %d connects %s to cell %d without a matching connection back", e.From, e.Dir, e.To)
}

// CheckSymmetry verifies that every connection has a partner on the other
// side, looking at the overlay when either side is a bridge and the
// connection is horizontal. It returns the first violation found.
func (b *Board) CheckSymmetry() error {
	for idx, c := range b.cells {
		for _, d := range AllDirs {
			if !c.LayerHas(d) {
				continue
			}
			n := b.Link(idx, d)
			if n == idx || !b.cells[n].LayerHas(d.Opposite()) {
				return AsymmetricEdge{From: idx, To: n, Dir: d}
			}
		}
	}
	return nil
}

// SourcePairs returns, per color (index 0 is color 1), the source cell
// indices in ascending order.
func (b *Board) SourcePairs() [][]int {
	pairs := make([][]int, b.colors)
	for idx, c := range b.cells {
		if !c.Source || c.Color == NoColor || int(c.Color) > b.colors {
			continue
		}
		pairs[c.Color-1] = append(pairs[c.Color-1], idx)
	}
	return pairs
}
