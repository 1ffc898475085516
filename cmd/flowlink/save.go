package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
)

func newSaveCmd() *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Export, import or clear pack saves",
		Long: `Manage the raw save buffer of a pack: two little-endian bytes per cell
for every level of the pack, in pack order.

Examples:
  flowlink save export classic classic.sav
  flowlink save import classic classic.sav --layout full
  flowlink save clear classic`,
	}

	var importLayout string
	importCmd := &cobra.Command{
		Use:   "import <pack> <file>",
		Short: "Replace the save of a pack with a raw save file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaveImport(cmd, args, importLayout)
		},
	}
	importCmd.Flags().StringVar(&importLayout, "layout", "", "Layout of the file: compact or full (default from config)")

	saveCmd.AddCommand(&cobra.Command{
		Use:   "export <pack> <file>",
		Short: "Write the save of a pack to a file",
		Args:  cobra.ExactArgs(2),
		RunE:  runSaveExport,
	})
	saveCmd.AddCommand(importCmd)
	saveCmd.AddCommand(&cobra.Command{
		Use:   "clear <pack>",
		Short: "Delete the save and completions of a pack",
		Args:  cobra.ExactArgs(1),
		RunE:  runSaveClear,
	})
	return saveCmd
}

func runSaveExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore(e, store)

	entry, err := store.LoadState(args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], entry.Data, 0o644); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	e.printf("Exported %s save (%s layout, %s) to %s.\n",
		entry.Pack, entry.Layout, humanize.Bytes(uint64(len(entry.Data))), args[1])
	return nil
}

func runSaveImport(cmd *cobra.Command, args []string, layoutName string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	layout := e.layout()
	if layoutName != "" {
		if layout, err = codec.ParseLayout(layoutName); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading save: %w", err)
	}

	// The buffer must fit the pack as it is loaded now.
	p, err := e.pack(args[0])
	if err != nil {
		return err
	}
	if err := p.RestoreSave(data, layout); err != nil {
		return err
	}

	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore(e, store)

	// Store it in the configured layout.
	stored := e.layout()
	if err := store.SaveState(p.Name, stored.String(), p.EncodeSave(stored)); err != nil {
		return err
	}
	e.printf("Imported save for %s: %d/%d levels solved.\n", p.Name, p.Completed(), p.Len())
	return nil
}

func runSaveClear(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore(e, store)

	if err := store.ClearProgress(args[0]); err != nil {
		return err
	}
	e.printf("Cleared save and completions of %s.\n", args[0])
	return nil
}
