// Package formats provides pluggable level pack file formats.
// Formats register themselves in init() functions, so the loader can
// discover them by file extension without hardcoded dependencies.
package formats

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
)

// Pack is the parsed content of one pack file.
//
// Levels and Errors run in parallel: a level that could not be parsed keeps
// its slot with a nil definition and the error at the same index.
type Pack struct {
	Name   string
	Levels []*codec.Level
	Errors []error
}

// Add appends a parsed level slot.
func (p *Pack) Add(l *codec.Level, err error) {
	p.Levels = append(p.Levels, l)
	p.Errors = append(p.Errors, err)
}

// Failed returns the number of slots that did not parse.
func (p *Pack) Failed() int {
	n := 0
	for _, err := range p.Errors {
		if err != nil {
			n++
		}
	}
	return n
}

// Format reads and optionally writes one pack file format.
type Format struct {
	// Name identifies the format in listings and flags (e.g. "yaml").
	Name string

	// Extensions are the lowercase file extensions, dot included.
	Extensions []string

	// Decode parses a whole file. name is the pack name derived from the
	// file name and becomes Pack.Name unless the file carries its own.
	Decode func(name string, data []byte) (*Pack, error)

	// Encode writes a pack. Nil for read-only formats.
	Encode func(p *Pack) ([]byte, error)
}

// Info contains metadata about a registered format.
type Info struct {
	Name       string
	Extensions []string
	Writable   bool
}

var (
	byName = make(map[string]Format)
	byExt  = make(map[string]string)
	mu     sync.RWMutex
)

// Register adds a format to the registry.
// Panics if the name or one of the extensions is already registered.
func Register(f Format) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := byName[f.Name]; exists {
		panic(fmt.Sprintf("formats: format %q already registered", f.Name))
	}
	for _, ext := range f.Extensions {
		if other, exists := byExt[ext]; exists {
			panic(fmt.Sprintf("formats: extension %q already registered by %q", ext, other))
		}
	}

	byName[f.Name] = f
	for _, ext := range f.Extensions {
		byExt[ext] = f.Name
	}
}

// List returns information about all registered formats, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(byName))
	for _, f := range byName {
		result = append(result, Info{
			Name:       f.Name,
			Extensions: append([]string(nil), f.Extensions...),
			Writable:   f.Encode != nil,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Extensions returns every supported extension, sorted.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]string, 0, len(byExt))
	for ext := range byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ForExtension returns the format handling ext (case-insensitive).
func ForExtension(ext string) (Format, error) {
	mu.RLock()
	defer mu.RUnlock()

	name, ok := byExt[strings.ToLower(ext)]
	if !ok {
		return Format{}, fmt.Errorf("formats: unsupported extension %q", ext)
	}
	return byName[name], nil
}

// Exists reports whether a format handles ext.
func Exists(ext string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := byExt[strings.ToLower(ext)]
	return ok
}
