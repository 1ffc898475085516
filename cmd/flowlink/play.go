package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/flow/editor"
)

type playOptions struct {
	cursor int
	dryRun bool
	quiet  bool
}

func newPlayCmd() *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play <pack> <level> <moves...>",
		Short: "Apply moves to a level and save the result",
		Long: `Play a level without an interactive screen. The saved state of the
pack is loaded, the moves are applied in order and the new state is saved.
Solving the level records a completion.

Moves:
  n, e, s, w    move the cursor, or draw while holding a color
  pick          pick up the color under the cursor, or let it go
  toggle        switch the bridge layer used for picking
  reset         clear the level

Moves may be separated by spaces or commas.

Examples:
  flowlink play classic 1 pick e e
  flowlink play classic 1 --cursor 3 pick s,s
  flowlink play classic 1 reset`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, opts)
		},
	}
	cmd.Flags().IntVar(&opts.cursor, "cursor", 0, "Cell index the cursor starts on")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Do not save the result")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the final board")
	return cmd
}

func runPlay(cmd *cobra.Command, args []string, opts *playOptions) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	n, err := parseLevelArg(args[1])
	if err != nil {
		return err
	}
	intents, err := editor.ParseIntents(strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	p, err := e.pack(args[0])
	if err != nil {
		return err
	}

	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore(e, store)
	if err := e.restoreSave(store, p); err != nil {
		return err
	}

	b, _, err := p.Level(n - 1)
	if err != nil {
		return err
	}

	ed := editor.New(b)
	if !ed.SetCursor(opts.cursor) {
		return fmt.Errorf("cursor %d is outside the %dx%d board", opts.cursor, b.Width(), b.Height())
	}

	for i, in := range intents {
		outcome := ed.Apply(in)
		if !opts.quiet {
			e.printf("%3d  %-6s %s\n", i+1, in, outcome)
		}
		e.logger.Debug("intent applied", "intent", in, "outcome", outcome, "cursor", ed.Session().Cursor)
	}

	theme, err := e.theme("", "")
	if err != nil {
		return err
	}
	if !opts.quiet {
		e.println()
	}
	e.printBoard(theme, b, ed.Session().Cursor)

	if opts.dryRun {
		return nil
	}

	if ed.Session().Dirty {
		layout := e.layout()
		if err := store.SaveState(p.Name, layout.String(), p.EncodeSave(layout)); err != nil {
			return err
		}
		ed.MarkClean()
		e.logger.Debug("saved pack state", "pack", p.Name, "layout", layout)
	}

	if b.Completed() {
		added, err := store.MarkCompleted(p.Name, n)
		if err != nil {
			return err
		}
		if added {
			e.printf("Level %d solved!\n", n)
		} else {
			e.printf("Level %d solved (already completed before).\n", n)
		}
	}
	return nil
}
