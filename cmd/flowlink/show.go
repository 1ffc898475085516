package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/flow/core"
	"github.com/vovakirdan/flowlink/internal/platform/tui"
)

type showOptions struct {
	saved  bool
	color  string
	theme  string
	cursor int
}

func newShowCmd() *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show <pack> <level>",
		Short: "Print a level",
		Long: `Print a level as a text grid. Sources are upper-case letters, path
cells lower-case, bridges '+', holes blank and walls '#'.

Examples:
  flowlink show classic 1
  flowlink show classic 3 --saved
  flowlink show classic 3 --color always --theme neon`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.saved, "saved", false, "Show the saved state instead of the empty level")
	cmd.Flags().StringVar(&opts.color, "color", "", "Color mode: auto, always or never (overrides config)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Color theme (overrides config)")
	cmd.Flags().IntVar(&opts.cursor, "cursor", tui.NoCursor, "Highlight the cell at this index")
	return cmd
}

func runShow(cmd *cobra.Command, args []string, opts *showOptions) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	n, err := parseLevelArg(args[1])
	if err != nil {
		return err
	}
	p, err := e.pack(args[0])
	if err != nil {
		return err
	}

	if opts.saved {
		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer closeStore(e, store)
		if err := e.restoreSave(store, p); err != nil {
			return err
		}
	}

	b, _, err := p.Level(n - 1)
	if err != nil {
		return err
	}

	theme, err := e.theme(opts.color, opts.theme)
	if err != nil {
		return err
	}
	e.printf("%s %d/%d\n", p.Name, n, p.Len())
	e.printBoard(theme, b, opts.cursor)
	return nil
}

// theme builds the board theme, letting flags override the config.
func (e *env) theme(colorMode, name string) (tui.Theme, error) {
	if colorMode == "" {
		colorMode = e.cfg.Show.Color
	}
	if name == "" {
		name = e.cfg.Show.Theme
	}

	tty, width := stdoutTerminal()
	r, err := tui.NewRenderer(e.out, colorMode, tty)
	if err != nil {
		return tui.Theme{}, err
	}
	e.width = width
	return tui.ThemeByName(r, name)
}

// printBoard renders b, warning when it is wider than the terminal.
func (e *env) printBoard(theme tui.Theme, b *core.Board, cursor int) {
	if e.width > 0 && 2*b.Width()-1 > e.width {
		e.logger.Warn("board is wider than the terminal", "width", b.Width(), "columns", e.width)
	}
	e.printf("%s", theme.RenderBoard(b, cursor))
}
