// Package editor implements the cursor-driven path editing state machine.
// The platform maps physical input to Intents; the editor applies them to a
// board and reports an Outcome. It never renders and never blocks.
package editor

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// IntentKind is an abstract player command.
type IntentKind int

const (
	IntentMove IntentKind = iota
	IntentSelect
	IntentToggleLayer
	IntentReset
)

// String returns a human-readable name for the intent kind.
func (k IntentKind) String() string {
	switch k {
	case IntentMove:
		return "Move"
	case IntentSelect:
		return "Select"
	case IntentToggleLayer:
		return "ToggleLayer"
	case IntentReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// Intent is one command. Dir is only set for IntentMove.
type Intent struct {
	Kind IntentKind
	Dir  core.Dir
}

// Move returns a move intent in direction d.
func Move(d core.Dir) Intent {
	return Intent{Kind: IntentMove, Dir: d}
}

// Select returns a pick/drop intent.
func Select() Intent {
	return Intent{Kind: IntentSelect}
}

// ToggleLayer returns a bridge layer toggle intent.
func ToggleLayer() Intent {
	return Intent{Kind: IntentToggleLayer}
}

// Reset returns a board reset intent.
func Reset() Intent {
	return Intent{Kind: IntentReset}
}

// String renders the intent in the same syntax ParseIntent accepts.
func (in Intent) String() string {
	switch in.Kind {
	case IntentMove:
		return in.Dir.String()[:1]
	case IntentSelect:
		return "pick"
	case IntentToggleLayer:
		return "toggle"
	case IntentReset:
		return "reset"
	default:
		return "?"
	}
}

// ParseIntent converts a token such as "n", "east", "pick", "toggle" or
// "reset" to an Intent.
func ParseIntent(tok string) (Intent, error) {
	if d, ok := core.ParseDir(tok); ok {
		return Move(d), nil
	}
	switch strings.ToLower(tok) {
	case "pick", "drop", "select", "p":
		return Select(), nil
	case "toggle", "layer", "t":
		return ToggleLayer(), nil
	case "reset":
		return Reset(), nil
	default:
		return Intent{}, fmt.Errorf("editor: unknown intent %q", tok)
	}
}

// ParseIntents parses whitespace or comma separated tokens.
func ParseIntents(s string) ([]Intent, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	intents := make([]Intent, 0, len(fields))
	for _, f := range fields {
		in, err := ParseIntent(f)
		if err != nil {
			return nil, err
		}
		intents = append(intents, in)
	}
	return intents, nil
}
