package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/flow/levels"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pack]",
		Short: "Check level definitions",
		Long: `Check every level of every pack, or of one pack: sources, bridges,
holes, wall symmetry and, when a level carries one, its solution.

Exits with an error when any problem is found.

Examples:
  flowlink validate
  flowlink validate classic`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	lib, err := e.library()
	if err != nil {
		return err
	}

	packs := lib.Packs()
	problems := 0
	if len(args) == 1 {
		p, ok := lib.Pack(args[0])
		if !ok {
			return fmt.Errorf("unknown pack %q", args[0])
		}
		packs = []*levels.Pack{p}
	} else {
		for _, skipped := range lib.Skipped {
			e.printf("%v\n", skipped)
			problems++
		}
	}

	for _, p := range packs {
		problems += printReports(e, p.Name, p.Validate())
	}

	if problems > 0 {
		return fmt.Errorf("validation failed: %d problems", problems)
	}
	e.printf("%d packs OK.\n", len(packs))
	return nil
}

// printReports prints one line per problem and returns how many there were.
func printReports(e *env, pack string, reports []levels.Report) int {
	n := 0
	for _, r := range reports {
		for _, ve := range r.Errors {
			e.printf("%s level %d: %v\n", pack, r.Level, ve)
			n++
		}
	}
	return n
}
