package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flowlink/internal/config"
	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/levels"
	"github.com/vovakirdan/flowlink/internal/storage"
)

// env carries what every command needs: resolved config, a logger and the
// command's output streams.
type env struct {
	cfg    config.Config
	logger *log.Logger
	out    io.Writer

	width int // terminal columns, 0 when unknown
}

// setup loads the config, applies global flag overrides and builds the
// logger.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLevels != "" {
		cfg.LevelsDir = flagLevels
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.LogLevel()
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: cfg.Log.Timestamps,
		Prefix:          "flowlink",
		Level:           level,
	})

	return &env{cfg: cfg, logger: logger, out: cmd.OutOrStdout()}, nil
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *env) println(args ...any) {
	fmt.Fprintln(e.out, args...)
}

func (e *env) layout() codec.Layout {
	layout, _ := e.cfg.Layout() // checked by Validate
	return layout
}

// library loads every pack under the levels directory.
func (e *env) library() (*levels.Library, error) {
	root, err := config.ExpandHome(e.cfg.LevelsDir)
	if err != nil {
		return nil, err
	}
	loader := levels.NewLoader(root)
	loader.Logger = e.logger
	lib, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, skipped := range lib.Skipped {
		e.logger.Debug("skipped pack file", "error", skipped)
	}
	e.logger.Debug("library loaded", "packs", len(lib.Packs()), "levels", lib.Len())
	return lib, nil
}

// pack loads the library and returns the named pack.
func (e *env) pack(name string) (*levels.Pack, error) {
	lib, err := e.library()
	if err != nil {
		return nil, err
	}
	p, ok := lib.Pack(name)
	if !ok {
		return nil, fmt.Errorf("unknown pack %q (run 'flowlink packs' to list packs)", name)
	}
	return p, nil
}

func (e *env) openStore() (*storage.Store, error) {
	return storage.Open(e.cfg.DBPath)
}

// restoreSave applies the stored save of p, if any. A save that does not
// fit the pack is discarded with a warning and the pack starts fresh.
func (e *env) restoreSave(store *storage.Store, p *levels.Pack) error {
	entry, err := store.LoadState(p.Name)
	if errors.Is(err, storage.ErrNoSave) {
		return nil
	}
	if err != nil {
		return err
	}

	layout, err := codec.ParseLayout(entry.Layout)
	if err != nil {
		e.logger.Warn("ignoring save with unknown layout", "pack", p.Name, "layout", entry.Layout)
		return nil
	}
	if err := p.RestoreSave(entry.Data, layout); err != nil {
		e.logger.Warn("ignoring save that does not fit the pack", "pack", p.Name, "error", err)
		p.Reset()
	}
	return nil
}

// parseLevelArg parses a 1-based level number.
func parseLevelArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("level must be a positive number, got %q", arg)
	}
	return n, nil
}

func closeStore(e *env, store *storage.Store) {
	if err := store.Close(); err != nil {
		e.logger.Warn("could not close save database", "error", err)
	}
}

// stdoutTerminal reports whether stdout is a terminal and its width.
func stdoutTerminal() (tty bool, width int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}
