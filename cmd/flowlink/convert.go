package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/flow/levels"
	"github.com/vovakirdan/flowlink/internal/flow/levels/formats"
)

func newConvertCmd() *cobra.Command {
	var listFormats bool
	cmd := &cobra.Command{
		Use:   "convert <src> <out>",
		Short: "Convert a pack between formats",
		Long: `Convert a level pack. Formats are chosen by file extension: .txt
(read only), .yaml/.yml and .bin (the binary pack payload).

Levels that fail to parse or validate are reported. A pack with unparsable
levels cannot be written.

Examples:
  flowlink convert classic.txt classic.bin
  flowlink convert classic.txt classic.yaml
  flowlink convert --formats`,
		Args: func(cmd *cobra.Command, args []string) error {
			if listFormats {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFormats {
				return runFormats(cmd)
			}
			return runConvert(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&listFormats, "formats", false, "List supported formats")
	return cmd
}

func runFormats(cmd *cobra.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	for _, f := range formats.List() {
		mode := "read/write"
		if !f.Writable {
			mode = "read only"
		}
		e.printf("  %-6s  %-12s  %v\n", f.Name, mode, f.Extensions)
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	src, out := args[0], args[1]

	parsed, format, err := levels.ReadPackFile(src)
	if err != nil {
		return err
	}
	e.logger.Info("read pack", "file", src, "format", format, "levels", len(parsed.Levels))

	for i, l := range parsed.Levels {
		if parsed.Errors[i] != nil {
			e.logger.Error("level does not parse", "level", i+1, "error", parsed.Errors[i])
			continue
		}
		for _, ve := range levels.Validate(l) {
			e.logger.Warn("level has problems", "level", i+1, "code", ve.Code, "message", ve.Message)
		}
	}

	if err := levels.WritePackFile(out, parsed); err != nil {
		return err
	}

	size := "?"
	if info, err := os.Stat(out); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	e.printf("Wrote %d levels to %s (%s).\n", len(parsed.Levels), out, size)
	return nil
}
