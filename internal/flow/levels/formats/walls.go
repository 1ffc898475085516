package formats

import (
	"fmt"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// topology returns an empty board used only for neighbor lookups.
func topology(l *codec.Level) *core.Board {
	return core.NewBoard(l.Width, l.Height, 0, l.Wrap)
}

// addWall sets d on idx unless idx is a hole.
func addWall(l *codec.Level, holes map[int]bool, idx int, d core.Dir) {
	if holes[idx] {
		return
	}
	if l.Walls == nil {
		l.Walls = make(map[int]core.DirMask)
	}
	l.Walls[idx] = l.Walls[idx].With(d)
}

// addWallPair walls off the edge between idx and its neighbor toward d,
// recording the wall on both sides.
func addWallPair(l *codec.Level, idx int, d core.Dir) {
	holes := holeSet(l)
	addWall(l, holes, idx, d)
	if n := topology(l).Link(idx, d); n != idx {
		addWall(l, holes, n, d.Opposite())
	}
}

func holeSet(l *codec.Level) map[int]bool {
	holes := make(map[int]bool, len(l.Holes))
	for _, h := range l.Holes {
		holes[h] = true
	}
	return holes
}

// deriveWalls adds the walls implied by the board shape: every neighbor of
// a hole is walled off toward it, and a non-wrapping board is walled along
// its border. Holes themselves never carry walls.
func deriveWalls(l *codec.Level) {
	holes := holeSet(l)
	b := topology(l)

	for _, h := range l.Holes {
		for _, d := range core.AllDirs {
			if n := b.Link(h, d); n != h {
				addWall(l, holes, n, d.Opposite())
			}
		}
	}

	if l.Wrap {
		return
	}
	for x := 0; x < l.Width; x++ {
		addWall(l, holes, b.Index(x, 0), core.North)
		addWall(l, holes, b.Index(x, l.Height-1), core.South)
	}
	for y := 0; y < l.Height; y++ {
		addWall(l, holes, b.Index(0, y), core.West)
		addWall(l, holes, b.Index(l.Width-1, y), core.East)
	}
}

// explicitWalls returns the walls of l that deriveWalls would not produce.
func explicitWalls(l *codec.Level) map[int]core.DirMask {
	derived := &codec.Level{Width: l.Width, Height: l.Height, Wrap: l.Wrap, Holes: l.Holes}
	deriveWalls(derived)

	out := make(map[int]core.DirMask)
	for idx, m := range l.Walls {
		if rest := m &^ derived.Walls[idx]; rest != 0 {
			out[idx] = rest
		}
	}
	return out
}

// checkLevel rejects definitions the binary format cannot carry.
func checkLevel(l *codec.Level) error {
	if l.Width <= 0 || l.Width > 255 || l.Height <= 0 || l.Height > 255 {
		return fmt.Errorf("board size %dx%d out of range", l.Width, l.Height)
	}
	if l.Colors() == 0 {
		return fmt.Errorf("level has no colors")
	}
	if l.Colors() > int(core.MaxColor) {
		return fmt.Errorf("%d colors exceed the limit of %d", l.Colors(), core.MaxColor)
	}

	cells := l.Cells()
	check := func(what string, idx int) error {
		if idx < 0 || idx >= cells {
			return fmt.Errorf("%s cell %d outside a %d-cell board", what, idx, cells)
		}
		return nil
	}
	for _, pair := range l.Sources {
		for _, idx := range pair {
			if err := check("source", idx); err != nil {
				return err
			}
		}
	}
	for _, idx := range l.Bridges {
		if err := check("bridge", idx); err != nil {
			return err
		}
	}
	for _, idx := range l.Holes {
		if err := check("hole", idx); err != nil {
			return err
		}
	}
	for _, path := range l.Solution {
		for _, idx := range path {
			if err := check("solution", idx); err != nil {
				return err
			}
		}
	}
	return nil
}
