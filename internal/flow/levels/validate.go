package levels

import (
	"fmt"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/core"
	"github.com/vovakirdan/flowlink/internal/flow/editor"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation codes.
const (
	CodeUnplayable     = "UNPLAYABLE"
	CodeSourceRange    = "SOURCE_RANGE"
	CodeSourceSame     = "SOURCE_SAME_CELL"
	CodeSourceShared   = "SOURCE_SHARED"
	CodeSourceHidden   = "SOURCE_HIDDEN"
	CodeBridgeOnHole   = "BRIDGE_ON_HOLE"
	CodeWallAsymmetric = "WALL_ASYMMETRIC"
	CodeSolutionCount  = "SOLUTION_COUNT"
	CodeSolutionReplay = "SOLUTION_REPLAY"
	CodeSolutionOpen   = "SOLUTION_INCOMPLETE"
)

// Validate checks a level definition. Checks:
//   - Every source lies on the board, and the two ends of a color differ
//   - No cell is claimed by two sources, and no source is hidden by a hole
//     or bridge
//   - No bridge sits on a hole
//   - Walls between two playable cells are recorded on both sides
//   - When a solution is present, it replays through the editor and solves
//     the board
//
// All problems are reported, in that order.
func Validate(l *codec.Level) []ValidationError {
	var errs []ValidationError

	errs = append(errs, validateSources(l)...)
	if len(errs) > 0 {
		// Structure checks below index by cell.
		return errs
	}
	errs = append(errs, validateStructure(l)...)
	errs = append(errs, validateWalls(l)...)
	errs = append(errs, validateSolution(l)...)

	return errs
}

func validateSources(l *codec.Level) []ValidationError {
	var errs []ValidationError
	cells := l.Cells()
	owner := make(map[int]int)

	for i, pair := range l.Sources {
		color := i + 1
		if pair[0] < 0 || pair[0] >= cells || pair[1] < 0 || pair[1] >= cells {
			errs = append(errs, ValidationError{
				Code:    CodeSourceRange,
				Message: fmt.Sprintf("color %d has a source outside the %d-cell board", color, cells),
			})
			continue
		}
		if pair[0] == pair[1] {
			errs = append(errs, ValidationError{
				Code:    CodeSourceSame,
				Message: fmt.Sprintf("color %d has both sources on cell %d", color, pair[0]),
			})
			continue
		}
		for _, idx := range pair {
			if other, taken := owner[idx]; taken {
				errs = append(errs, ValidationError{
					Code:    CodeSourceShared,
					Message: fmt.Sprintf("cell %d is a source of colors %d and %d", idx, other, color),
				})
				continue
			}
			owner[idx] = color
		}
	}
	return errs
}

func validateStructure(l *codec.Level) []ValidationError {
	var errs []ValidationError

	holes := make(map[int]bool, len(l.Holes))
	for _, h := range l.Holes {
		holes[h] = true
	}
	bridges := make(map[int]bool, len(l.Bridges))
	for _, b := range l.Bridges {
		bridges[b] = true
		if holes[b] {
			errs = append(errs, ValidationError{
				Code:    CodeBridgeOnHole,
				Message: fmt.Sprintf("cell %d is both a bridge and a hole", b),
			})
		}
	}

	for i, pair := range l.Sources {
		for _, idx := range pair {
			if holes[idx] || bridges[idx] {
				errs = append(errs, ValidationError{
					Code:    CodeSourceHidden,
					Message: fmt.Sprintf("source of color %d on cell %d is covered by a hole or bridge", i+1, idx),
				})
			}
		}
	}
	return errs
}

func validateWalls(l *codec.Level) []ValidationError {
	var errs []ValidationError
	b := l.Board()

	for idx := 0; idx < b.Len(); idx++ {
		c := b.Cell(idx)
		if c.Hole {
			continue
		}
		for _, d := range core.AllDirs {
			if !c.Walls.Has(d) {
				continue
			}
			n := b.Link(idx, d)
			if n == idx || b.Cell(n).Hole {
				continue
			}
			if !b.Cell(n).Walls.Has(d.Opposite()) {
				errs = append(errs, ValidationError{
					Code:    CodeWallAsymmetric,
					Message: fmt.Sprintf("wall %s of cell %d is missing on cell %d", d, idx, n),
				})
			}
		}
	}
	return errs
}

func validateSolution(l *codec.Level) []ValidationError {
	if len(l.Solution) == 0 {
		return nil
	}
	if len(l.Solution) != l.Colors() {
		return []ValidationError{{
			Code:    CodeSolutionCount,
			Message: fmt.Sprintf("solution has %d paths for %d colors", len(l.Solution), l.Colors()),
		}}
	}

	ed := editor.New(l.Board())
	for i, path := range l.Solution {
		if _, err := ed.Replay(path); err != nil {
			return []ValidationError{{
				Code:    CodeSolutionReplay,
				Message: fmt.Sprintf("color %d: %v", i+1, err),
			}}
		}
	}
	if !ed.Board().Completed() {
		return []ValidationError{{
			Code:    CodeSolutionOpen,
			Message: "solution leaves cells unfilled",
		}}
	}
	return nil
}

// Report is the validation result of one pack slot.
type Report struct {
	Level  int // 1-based
	Errors []ValidationError
}

// Validate checks every slot of the pack and returns reports for the slots
// with problems. Unplayable slots report CodeUnplayable.
func (p *Pack) Validate() []Report {
	var reports []Report
	for i, l := range p.Levels {
		if p.Errors[i] != nil || l == nil {
			reports = append(reports, Report{Level: i + 1, Errors: []ValidationError{{
				Code:    CodeUnplayable,
				Message: fmt.Sprint(p.Errors[i]),
			}}})
			continue
		}
		if errs := Validate(l); len(errs) > 0 {
			reports = append(reports, Report{Level: i + 1, Errors: errs})
		}
	}
	return reports
}
