package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/flow/levels"
	"github.com/vovakirdan/flowlink/internal/storage"
)

func newPacksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "packs",
		Short: "List loaded level packs",
		Long: `Shows every pack found under the levels directory with its format,
level count, board sizes and how many levels have been completed.`,
		Args: cobra.NoArgs,
		RunE: runPacks,
	}
}

func runPacks(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	lib, err := e.library()
	if err != nil {
		return err
	}

	packs := lib.Packs()
	if len(packs) == 0 {
		e.printf("No packs found in %s.\n", e.cfg.LevelsDir)
		return nil
	}

	// Completion counts are optional
	progress := map[string]*storage.PackProgress{}
	if store, err := e.openStore(); err != nil {
		e.logger.Warn("could not open save database", "error", err)
	} else {
		defer closeStore(e, store)
		if progress, err = store.AllProgress(); err != nil {
			e.logger.Warn("could not read progress", "error", err)
			progress = map[string]*storage.PackProgress{}
		}
	}

	// Calculate column widths
	maxNameLen := 4 // "Pack" header
	for _, p := range packs {
		maxNameLen = max(maxNameLen, len(p.Name))
	}

	e.printf("  %-*s  %-6s  %6s  %4s  %-12s  %8s\n", maxNameLen, "Pack", "Format", "Levels", "Done", "Sizes", "File")
	e.printf("  %-*s  %-6s  %6s  %4s  %-12s  %8s\n", maxNameLen, "----", "------", "------", "----", "-----", "----")

	for _, p := range packs {
		done := 0
		if pp, ok := progress[p.Name]; ok {
			done = pp.Completed
		}
		e.printf("  %-*s  %-6s  %6s  %4d  %-12s  %8s\n",
			maxNameLen, p.Name, p.Format, levelCount(p), done, packSizes(p), fileSize(p.Path))
	}

	e.println()
	e.printf("%d packs, %d levels.", len(packs), lib.Len())
	if len(lib.Skipped) > 0 {
		e.printf(" %d files could not be loaded.", len(lib.Skipped))
	}
	e.println()
	return nil
}

func levelCount(p *levels.Pack) string {
	if bad := p.Invalid(); bad > 0 {
		return fmt.Sprintf("%d(-%d)", p.Len(), bad)
	}
	return fmt.Sprint(p.Len())
}

// packSizes lists the distinct board sizes of a pack, smallest first.
func packSizes(p *levels.Pack) string {
	seen := map[[2]int]bool{}
	var sizes [][2]int
	for _, b := range p.Boards {
		if !b.Valid() {
			continue
		}
		s := [2]int{b.Width(), b.Height()}
		if !seen[s] {
			seen[s] = true
			sizes = append(sizes, s)
		}
	}
	sort.Slice(sizes, func(i, j int) bool {
		return sizes[i][0]*sizes[i][1] < sizes[j][0]*sizes[j][1]
	})

	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%dx%d", s[0], s[1])
	}
	return strings.Join(parts, ",")
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return humanize.Bytes(uint64(info.Size()))
}
