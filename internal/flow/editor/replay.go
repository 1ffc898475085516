package editor

import "fmt"

// ReplayError reports the step at which a path could not be drawn.
type ReplayError struct {
	Step    int
	From    int
	To      int
	Outcome Outcome
	Reason  string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("editor: replay step %d (%d -> %d): %s", e.Step, e.From, e.To, e.Reason)
}

// Replay draws a path given as consecutive cell indices, starting by
// picking up path[0]. It returns the outcome of the final move, which is
// OutcomeCompleted for a path that ends on its partner endpoint.
func (e *Editor) Replay(path []int) (Outcome, error) {
	if len(path) < 2 {
		return OutcomeRefused, &ReplayError{Reason: "path needs at least two cells"}
	}
	if e.State() == StateDragging {
		e.drop()
	}
	if !e.SetCursor(path[0]) {
		return OutcomeRefused, &ReplayError{From: path[0], To: path[0], Reason: "start cell out of range"}
	}
	if out := e.SelectEndpoint(); out != OutcomePicked {
		return out, &ReplayError{From: path[0], To: path[0], Outcome: out, Reason: "start cell is not a free endpoint"}
	}

	last := OutcomePicked
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		d, ok := e.board.DirectionTo(from, to)
		if !ok {
			return last, &ReplayError{Step: i, From: from, To: to, Reason: "cells are not connected"}
		}
		last = e.AttemptMove(d)
		switch last {
		case OutcomeExtended:
		case OutcomeCompleted:
			if i != len(path)-1 {
				return last, &ReplayError{Step: i, From: from, To: to, Outcome: last, Reason: "path completed early"}
			}
		default:
			return last, &ReplayError{Step: i, From: from, To: to, Outcome: last, Reason: "move " + last.String()}
		}
	}
	return last, nil
}
