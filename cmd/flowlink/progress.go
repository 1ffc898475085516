package main

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/storage"
)

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show completion statistics",
		Long: `Show how many levels of each pack have been solved, and when the
pack was last played.`,
		Args: cobra.NoArgs,
		RunE: runProgress,
	}
}

func runProgress(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore(e, store)

	stats, err := store.AllProgress()
	if err != nil {
		return err
	}

	// Packs on disk without progress are listed too; progress for packs
	// that are gone from disk is still shown.
	totals := map[string]int{}
	if lib, err := e.library(); err != nil {
		e.logger.Warn("could not load levels", "error", err)
	} else {
		for _, p := range lib.Packs() {
			totals[p.Name] = p.Len()
			if _, ok := stats[p.Name]; !ok {
				stats[p.Name] = &storage.PackProgress{Pack: p.Name}
			}
		}
	}

	if len(stats) == 0 {
		e.println("No progress recorded yet.")
		return nil
	}

	names := make([]string, 0, len(stats))
	maxNameLen := 4 // "Pack" header
	for name := range stats {
		names = append(names, name)
		maxNameLen = max(maxNameLen, len(name))
	}
	sort.Strings(names)

	e.printf("  %-*s  %-9s  %-16s  %s\n", maxNameLen, "Pack", "Solved", "Last solved", "Saved")
	e.printf("  %-*s  %-9s  %-16s  %s\n", maxNameLen, "----", "------", "-----------", "-----")

	for _, name := range names {
		p := stats[name]
		solved := humanize.Comma(int64(p.Completed))
		if total, ok := totals[name]; ok {
			solved += "/" + humanize.Comma(int64(total))
		}
		e.printf("  %-*s  %-9s  %-16s  %s\n", maxNameLen, name, solved, ago(p.LastCompleted), ago(p.SavedAt))
	}
	return nil
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
