package editor

import "github.com/vovakirdan/flowlink/internal/flow/core"

// State is the editor's mode.
type State int

const (
	// StateIdle means no color is held; moves only reposition the cursor.
	StateIdle State = iota
	// StateDragging means a color is held; moves draw or retract a path.
	StateDragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Outcome reports what an intent did.
type Outcome int

const (
	OutcomeRefused   Outcome = iota // No-op: wall, edge, saturated or foreign cell
	OutcomeMoved                    // Cursor moved, board untouched
	OutcomeExtended                 // Path grew by one cell
	OutcomeCompleted                // Path reached its other end; drag released
	OutcomeRetracted                // Path shrank by one cell
	OutcomePicked                   // Drag started
	OutcomeDropped                  // Drag cancelled
	OutcomeToggled                  // Bridge layer switched
	OutcomeReset                    // Board cleared
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRefused:
		return "refused"
	case OutcomeMoved:
		return "moved"
	case OutcomeExtended:
		return "extended"
	case OutcomeCompleted:
		return "completed"
	case OutcomeRetracted:
		return "retracted"
	case OutcomePicked:
		return "picked"
	case OutcomeDropped:
		return "dropped"
	case OutcomeToggled:
		return "toggled"
	case OutcomeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Changed reports whether the outcome mutated the board.
func (o Outcome) Changed() bool {
	switch o {
	case OutcomeExtended, OutcomeCompleted, OutcomeRetracted, OutcomeReset:
		return true
	default:
		return false
	}
}

// Session is the per-board play state. It is created when a board is
// entered and discarded afterwards; it is never persisted.
type Session struct {
	Cursor   int
	Selected core.Color // 0 when not dragging
	LastMove core.Dir   // direction of the last move made while dragging

	// OverlayLayer picks the bridge layer used when picking up a loose end
	// that sits on a bridge.
	OverlayLayer bool

	JustRetracted bool

	// Dirty is set whenever the board changes and cleared by the owner
	// after persisting.
	Dirty bool
}

// State derives the editor mode from the session.
func (s Session) State() State {
	if s.Selected != core.NoColor {
		return StateDragging
	}
	return StateIdle
}
