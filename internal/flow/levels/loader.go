package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flowlink/internal/flow/levels/formats"
)

// Loader handles loading packs from a directory.
type Loader struct {
	Root string

	// Logger, when set, receives a warning for every skipped file and
	// broken level.
	Logger *log.Logger
}

// NewLoader creates a new pack loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans Root and loads every supported pack file.
// Files that cannot be read or parsed are recorded in Library.Skipped;
// packs are sorted by name for deterministic ordering.
func (l *Loader) LoadAll() (*Library, error) {
	lib := NewLibrary()

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !formats.Exists(filepath.Ext(path)) {
			return nil
		}

		if _, err := l.loadInto(lib, path); err != nil {
			l.warn("skipping pack file", "path", path, "error", err)
			lib.Skipped = append(lib.Skipped, err)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	lib.finish()
	return lib, nil
}

// LoadFile loads a single pack file into a library of its own.
func (l *Loader) LoadFile(path string) (*Pack, error) {
	lib := NewLibrary()
	return l.loadInto(lib, path)
}

func (l *Loader) loadInto(lib *Library, path string) (*Pack, error) {
	parsed, format, err := ReadPackFile(path)
	if err != nil {
		return nil, err
	}

	p, err := lib.add(parsed.Name, path, format, parsed.Levels, parsed.Errors)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	for i, err := range p.Errors {
		if err != nil {
			l.warn("level is unplayable", "pack", p.Name, "level", i+1, "error", err)
		}
	}
	return p, nil
}

func (l *Loader) warn(msg string, keyvals ...any) {
	if l.Logger != nil {
		l.Logger.Warn(msg, keyvals...)
	}
}

// ReadPackFile parses a pack file with the format its extension selects.
// The pack is named after the file unless the file names itself.
func ReadPackFile(path string) (*formats.Pack, string, error) {
	f, err := formats.ForExtension(filepath.Ext(path))
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading file %s: %w", path, err)
	}

	parsed, err := f.Decode(PackName(path), data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing file %s: %w", path, err)
	}
	return parsed, f.Name, nil
}

// WritePackFile encodes p with the format the extension of path selects.
func WritePackFile(path string, p *formats.Pack) error {
	f, err := formats.ForExtension(filepath.Ext(path))
	if err != nil {
		return err
	}
	if f.Encode == nil {
		return fmt.Errorf("format %s is read-only", f.Name)
	}

	data, err := f.Encode(p)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// PackName derives a pack name from a file path: the base name without its
// extension.
func PackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
