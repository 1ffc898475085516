// Package levels loads level packs from disk into a library of playable
// boards. This package depends on codec and core but neither depends on
// levels.
package levels

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// Pack is a named, ordered view over a contiguous run of library boards.
// Boards is a subslice of the library's board collection, so boards mutated
// through a pack are the library's boards.
type Pack struct {
	Name   string
	Path   string
	Format string

	Levels []*codec.Level // nil for slots that did not parse
	Boards []*core.Board  // invalid boards for slots that did not parse
	Errors []error
}

// Len returns the number of level slots.
func (p *Pack) Len() int {
	return len(p.Boards)
}

// Level returns the board and definition at slot n (0-based).
func (p *Pack) Level(n int) (*core.Board, *codec.Level, error) {
	if n < 0 || n >= len(p.Boards) {
		return nil, nil, fmt.Errorf("pack %s: level %d out of range 1..%d", p.Name, n+1, len(p.Boards))
	}
	if p.Errors[n] != nil {
		return p.Boards[n], nil, fmt.Errorf("pack %s: level %d is unplayable: %w", p.Name, n+1, p.Errors[n])
	}
	return p.Boards[n], p.Levels[n], nil
}

// Invalid returns the number of unplayable slots.
func (p *Pack) Invalid() int {
	n := 0
	for _, b := range p.Boards {
		if !b.Valid() {
			n++
		}
	}
	return n
}

// Completed returns the number of boards currently solved.
func (p *Pack) Completed() int {
	n := 0
	for _, b := range p.Boards {
		if b.Completed() {
			n++
		}
	}
	return n
}

// Reset clears every board of the pack.
func (p *Pack) Reset() {
	for _, b := range p.Boards {
		b.Reset()
	}
}

// EncodeSave serializes the state of every board in the pack.
func (p *Pack) EncodeSave(layout codec.Layout) []byte {
	return codec.EncodeSave(p.Boards, layout)
}

// RestoreSave applies a save buffer to the pack's boards. A buffer too short
// for the pack leaves every board untouched.
func (p *Pack) RestoreSave(data []byte, layout codec.Layout) error {
	if err := codec.DecodeSave(p.Boards, data, layout); err != nil {
		return fmt.Errorf("pack %s: %w", p.Name, err)
	}
	return nil
}

// Library owns every loaded board. Packs are views into it.
type Library struct {
	boards []*core.Board
	packs  []*Pack
	byName map[string]*Pack

	// Skipped lists files that could not be read or parsed at all.
	Skipped []error
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{byName: make(map[string]*Pack)}
}

// add appends the slots of a parsed file as a new pack.
func (lib *Library) add(name, path, format string, levels []*codec.Level, errs []error) (*Pack, error) {
	if _, exists := lib.byName[name]; exists {
		return nil, fmt.Errorf("pack %q already loaded", name)
	}

	start := len(lib.boards)
	for i, l := range levels {
		b := core.InvalidBoard()
		if errs[i] == nil && l != nil {
			b = l.Board()
		}
		lib.boards = append(lib.boards, b)
	}
	end := len(lib.boards)

	p := &Pack{
		Name:   name,
		Path:   path,
		Format: format,
		Levels: levels,
		Boards: lib.boards[start:end:end],
		Errors: errs,
	}
	lib.packs = append(lib.packs, p)
	lib.byName[name] = p
	return p, nil
}

// finish orders packs by name.
func (lib *Library) finish() {
	sort.Slice(lib.packs, func(i, j int) bool {
		return lib.packs[i].Name < lib.packs[j].Name
	})
}

// Packs returns all packs sorted by name.
func (lib *Library) Packs() []*Pack {
	return lib.packs
}

// Pack looks up a pack by name.
func (lib *Library) Pack(name string) (*Pack, bool) {
	p, ok := lib.byName[name]
	return p, ok
}

// Boards returns every board across all packs, in load order.
func (lib *Library) Boards() []*core.Board {
	return lib.boards
}

// Len returns the total number of level slots.
func (lib *Library) Len() int {
	return len(lib.boards)
}
