// Package core provides the board model for the flow puzzle: cells, walls,
// bridges and the wrap topology. This package is UI-agnostic and deterministic.
package core

import "strings"

// Dir is a single direction bit. The values match the on-disk masks.
type Dir uint8

const (
	North Dir = 1 << iota
	East
	South
	West
)

// AllDirs lists the four directions in mask order.
var AllDirs = [4]Dir{North, East, South, West}

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "none"
	}
}

// Opposite returns the direction facing back.
func (d Dir) Opposite() Dir {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Vertical reports whether d lies on the north/south axis.
func (d Dir) Vertical() bool {
	return d == North || d == South
}

// Axis returns the mask of both directions on d's axis.
func (d Dir) Axis() DirMask {
	if d.Vertical() {
		return DirMask(North | South)
	}
	return DirMask(East | West)
}

// Delta returns the (dx, dy) offset for one step; north decreases y.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// ParseDir converts a name or single letter (n, e, s, w) to a Dir.
func ParseDir(s string) (Dir, bool) {
	switch strings.ToLower(s) {
	case "n", "north", "up", "u":
		return North, true
	case "e", "east", "right", "r":
		return East, true
	case "s", "south", "down", "d":
		return South, true
	case "w", "west", "left", "l":
		return West, true
	default:
		return 0, false
	}
}

// DirMask is a set of directions (connections or walls).
type DirMask uint8

// Has reports whether the mask contains d.
func (m DirMask) Has(d Dir) bool {
	return m&DirMask(d) != 0
}

// With returns the mask with d added.
func (m DirMask) With(d Dir) DirMask {
	return m | DirMask(d)
}

// Without returns the mask with d removed.
func (m DirMask) Without(d Dir) DirMask {
	return m &^ DirMask(d)
}

// Count returns the number of directions in the mask.
func (m DirMask) Count() int {
	n := 0
	for _, d := range AllDirs {
		if m.Has(d) {
			n++
		}
	}
	return n
}

// First returns the first direction in N, E, S, W order, or 0 if empty.
func (m DirMask) First() Dir {
	for _, d := range AllDirs {
		if m.Has(d) {
			return d
		}
	}
	return 0
}

// String renders the mask as letters, e.g. "NS" or "-" when empty.
func (m DirMask) String() string {
	if m&0xF == 0 {
		return "-"
	}
	var sb strings.Builder
	for _, d := range AllDirs {
		if m.Has(d) {
			sb.WriteByte(strings.ToUpper(d.String())[0])
		}
	}
	return sb.String()
}

// ParseDirMask parses letters such as "NE" or "nsw". Unknown letters fail.
func ParseDirMask(s string) (DirMask, bool) {
	var m DirMask
	for _, r := range s {
		d, ok := ParseDir(string(r))
		if !ok {
			return 0, false
		}
		m = m.With(d)
	}
	return m, true
}
