package core

// Overlay is the horizontal layer state of a bridge cell.
// Each half records a connection toward one horizontal neighbor.
type Overlay uint8

const (
	OverlayNone Overlay = 0
	OverlayWest Overlay = 1
	OverlayEast Overlay = 2
	OverlayFull Overlay = OverlayWest | OverlayEast
)

// overlayHalf returns the half matching a horizontal direction.
func overlayHalf(d Dir) Overlay {
	switch d {
	case East:
		return OverlayEast
	case West:
		return OverlayWest
	default:
		return OverlayNone
	}
}

// Count returns how many halves are connected.
func (o Overlay) Count() int {
	switch o & OverlayFull {
	case OverlayFull:
		return 2
	case OverlayNone:
		return 0
	default:
		return 1
	}
}

// Has reports whether the half facing d is connected.
func (o Overlay) Has(d Dir) bool {
	h := overlayHalf(d)
	return h != OverlayNone && o&h != 0
}

// Cell is one board position.
//
// For bridge cells Conn and Color only ever carry the vertical path; the
// horizontal path lives in Overlay and OverlayColor.
type Cell struct {
	Color Color
	Conn  DirMask
	Walls DirMask

	Hole   bool
	Source bool
	Bridge bool

	Overlay      Overlay
	OverlayColor Color
}

// Connected reports whether the primary layer has any connection.
func (c Cell) Connected() bool {
	return c.Conn != 0
}

// ConnCount returns the number of primary connections.
func (c Cell) ConnCount() int {
	return c.Conn.Count()
}

// LayerCount returns the connection count of the layer a move on the given
// axis edits: the overlay for horizontal moves through a bridge, the primary
// layer otherwise.
func (c Cell) LayerCount(vertical bool) int {
	if c.Bridge && !vertical {
		return c.Overlay.Count()
	}
	return c.ConnCount()
}

// LayerColor returns the color of the layer selected as in LayerCount.
func (c Cell) LayerColor(vertical bool) Color {
	if c.Bridge && !vertical {
		return c.OverlayColor
	}
	return c.Color
}

// LayerHas reports whether the relevant layer is connected toward d.
func (c Cell) LayerHas(d Dir) bool {
	if c.Bridge && !d.Vertical() {
		return c.Overlay.Has(d)
	}
	return c.Conn.Has(d)
}

// Complete reports whether the cell is satisfied in a solved board.
func (c Cell) Complete() bool {
	switch {
	case c.Hole:
		return true
	case c.Source:
		return c.ConnCount() == 1
	case c.Bridge:
		return c.ConnCount() == 2 && c.Overlay == OverlayFull
	default:
		return c.ConnCount() == 2
	}
}

// AddConnection records a connection toward d in the given color, routing
// horizontal connections on bridges to the overlay. A source keeps the
// color its level gave it.
func (c *Cell) AddConnection(d Dir, col Color) {
	if c.Bridge && !d.Vertical() {
		c.Overlay |= overlayHalf(d)
		c.OverlayColor = col
		return
	}
	c.Conn = c.Conn.With(d)
	if !c.Source {
		c.Color = col
	}
}

// removeDirection drops the connection bit toward d without touching color.
func (c *Cell) removeDirection(d Dir) {
	if c.Bridge && !d.Vertical() {
		c.Overlay &^= overlayHalf(d)
		return
	}
	c.Conn = c.Conn.Without(d)
}

// clear resets play state, keeping structure and source colors.
func (c *Cell) clear() {
	c.Conn = 0
	if !c.Source {
		c.Color = NoColor
	}
	c.Overlay = OverlayNone
	c.OverlayColor = NoColor
}
