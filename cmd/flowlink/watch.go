package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/config"
	"github.com/vovakirdan/flowlink/internal/flow/levels"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-validate packs whenever they change",
		Long: `Watch the levels directory and validate every pack file that is
created or modified. Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	root, err := config.ExpandHome(e.cfg.LevelsDir)
	if err != nil {
		return err
	}

	w, err := levels.NewWatcher(e.cfg.Watch.Debounce, root)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.logger.Info("watching for pack changes", "dir", root, "debounce", e.cfg.Watch.Debounce)
	return watchLoop(ctx, e, w)
}

// watchLoop validates changed packs until ctx is done or the watcher stops.
func watchLoop(ctx context.Context, e *env, w *levels.Watcher) error {
	loader := levels.NewLoader("")
	loader.Logger = e.logger

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("shutting down...")
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			checkPackFile(e, loader, path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", "error", err)
		}
	}
}

func checkPackFile(e *env, loader *levels.Loader, path string) {
	p, err := loader.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.logger.Info("pack removed", "file", path)
		return
	}
	if err != nil {
		e.logger.Error("pack does not load", "file", path, "error", err)
		return
	}

	reports := p.Validate()
	if len(reports) == 0 {
		e.logger.Info("pack OK", "pack", p.Name, "levels", p.Len())
		return
	}
	for _, r := range reports {
		for _, ve := range r.Errors {
			e.logger.Warn("level has problems", "pack", p.Name, "level", r.Level, "code", ve.Code, "message", ve.Message)
		}
	}
}
