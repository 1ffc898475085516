// flowlink loads, checks and plays flow-connection puzzle packs from the
// command line.
//
// Usage:
//
//	flowlink packs                         - List loaded packs
//	flowlink show <pack> <level>           - Print a level
//	flowlink play <pack> <level> <moves>   - Apply moves to a level and save
//	flowlink validate [pack]               - Check level definitions
//	flowlink convert <src> <out>           - Convert a pack between formats
//	flowlink save export|import|clear      - Manage raw save buffers
//	flowlink progress                      - Show completion statistics
//	flowlink watch                         - Re-validate packs as they change
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.flowlink, ./configs)
//	--levels <dir>      - Level pack directory
//	--db <path>         - Save database path
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagLevels   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flowlink",
		Short: "flowlink - connect the colors on a grid",
		Long: `flowlink manages packs of flow-connection puzzles: grids where each pair
of colored sources must be joined by a path, and every cell filled.

Available commands:
  packs     - List the loaded packs
  show      - Print a level, optionally with its saved state
  play      - Apply moves to a level and persist the result
  validate  - Check level definitions
  convert   - Convert a pack between the text, YAML and binary formats
  save      - Export, import or clear raw save buffers
  progress  - Show completion statistics
  watch     - Re-validate packs whenever they change on disk

Examples:
  flowlink packs
  flowlink show classic 1
  flowlink play classic 1 pick e e s
  flowlink convert classic.txt classic.bin`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level pack directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to save database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newPacksCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}
