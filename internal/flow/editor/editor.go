package editor

import "github.com/vovakirdan/flowlink/internal/flow/core"

// Editor applies intents to one board.
type Editor struct {
	board   *core.Board
	session Session
}

// New creates an editor for b with the cursor on cell 0.
func New(b *core.Board) *Editor {
	return &Editor{board: b}
}

// Board returns the edited board.
func (e *Editor) Board() *core.Board {
	return e.board
}

// Session returns a copy of the current session.
func (e *Editor) Session() Session {
	return e.session
}

// State returns the current mode.
func (e *Editor) State() State {
	return e.session.State()
}

// MarkClean clears the dirty flag, typically after the board was saved.
func (e *Editor) MarkClean() {
	e.session.Dirty = false
}

// SetCursor jumps the cursor to idx, as a pointer tap does. Jumps are only
// allowed while idle.
func (e *Editor) SetCursor(idx int) bool {
	if e.session.State() != StateIdle || !e.board.InBounds(idx) {
		return false
	}
	e.session.Cursor = idx
	return true
}

// Apply dispatches an intent according to the current state.
func (e *Editor) Apply(in Intent) Outcome {
	if !e.board.Valid() || e.board.Len() == 0 {
		return OutcomeRefused
	}

	switch in.Kind {
	case IntentToggleLayer:
		return e.ToggleLayer()
	case IntentReset:
		return e.ResetBoard()
	}

	switch e.session.State() {
	case StateIdle:
		switch in.Kind {
		case IntentMove:
			return e.moveCursor(in.Dir)
		case IntentSelect:
			return e.pick()
		}
	case StateDragging:
		switch in.Kind {
		case IntentMove:
			return e.drawMove(in.Dir)
		case IntentSelect:
			return e.drop()
		}
	}
	return OutcomeRefused
}

// AttemptMove moves the cursor one cell in direction d, drawing when a
// color is held.
func (e *Editor) AttemptMove(d core.Dir) Outcome {
	return e.Apply(Move(d))
}

// SelectEndpoint picks up the endpoint under the cursor, or drops the held
// color.
func (e *Editor) SelectEndpoint() Outcome {
	return e.Apply(Select())
}

// ToggleLayer switches the bridge layer used for picking.
func (e *Editor) ToggleLayer() Outcome {
	e.session.OverlayLayer = !e.session.OverlayLayer
	return OutcomeToggled
}

// ResetBoard clears all drawn paths and releases any held color.
func (e *Editor) ResetBoard() Outcome {
	e.board.Reset()
	e.session.Selected = core.NoColor
	e.session.Dirty = true
	return OutcomeReset
}

// moveCursor repositions the cursor ignoring walls. Edges always wrap.
func (e *Editor) moveCursor(d core.Dir) Outcome {
	next := e.board.Neighbor(e.session.Cursor, d, false)
	if next == e.session.Cursor {
		return OutcomeRefused
	}
	e.session.Cursor = next
	return OutcomeMoved
}

// pick starts a drag from the cell under the cursor: an unconnected source,
// or a loose end (exactly one connection on the active layer).
func (e *Editor) pick() Outcome {
	c := e.board.Cell(e.session.Cursor)

	var col core.Color
	switch {
	case c.Hole:
	case c.Source:
		if !c.Connected() {
			col = c.Color
		}
	case c.Bridge && e.session.OverlayLayer:
		if c.Overlay.Count() == 1 {
			col = c.OverlayColor
		}
	default:
		if c.ConnCount() == 1 {
			col = c.Color
		}
	}

	if col == core.NoColor {
		return OutcomeRefused
	}
	e.session.Selected = col
	return OutcomePicked
}

// drop releases the held color without touching the board.
func (e *Editor) drop() Outcome {
	e.session.Selected = core.NoColor
	return OutcomeDropped
}

// drawMove extends, retracts or displaces paths for a move while dragging.
func (e *Editor) drawMove(d core.Dir) Outcome {
	s := &e.session
	cur := s.Cursor
	next := e.board.Neighbor(cur, d, true)
	if next == cur {
		return OutcomeRefused
	}

	vertical := d.Vertical()
	current := e.board.Cell(cur)

	// A bridge can only be left along the axis it was entered on.
	if current.Bridge && !d.Axis().Has(s.LastMove) {
		return OutcomeRefused
	}

	// Stepping back onto the previous cell of the path undoes the last step.
	if current.LayerCount(vertical) == 1 && current.LayerHas(d) {
		e.board.RemoveSingleConnection(cur, vertical)
		s.Cursor = next
		s.LastMove = d
		s.JustRetracted = true
		s.Dirty = true
		return OutcomeRetracted
	}

	target := e.board.Cell(next)
	if target.Hole {
		return OutcomeRefused
	}

	completed := false
	switch {
	case target.Bridge:
		switch target.LayerCount(vertical) {
		case 0:
		case 1:
			if target.LayerColor(vertical) == s.Selected {
				completed = true
			} else {
				e.board.RemoveSingleConnection(next, vertical)
			}
		default:
			return OutcomeRefused
		}

	case target.Color == s.Selected:
		n := target.ConnCount()
		switch {
		case (n == 1 && !target.Source) || (n == 0 && target.Source):
			completed = true
		case n == 2:
			return OutcomeRefused
		}
		// A source of this color that already holds a connection falls
		// through and gains a second one; see DESIGN.md.

	case !target.Source:
		if target.ConnCount() > 1 {
			return OutcomeRefused
		}
		e.board.RemoveSingleConnection(next, false)

	default:
		return OutcomeRefused
	}

	target.AddConnection(d.Opposite(), s.Selected)
	current.AddConnection(d, s.Selected)
	s.Cursor = next
	s.LastMove = d
	s.JustRetracted = false
	s.Dirty = true

	if completed {
		s.Selected = core.NoColor
		return OutcomeCompleted
	}
	return OutcomeExtended
}
