package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-catalog/pkg/snapshot"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import one owner's catalog",
	}
	cmd.AddCommand(newSnapshotExportCmd(opts))
	cmd.AddCommand(newSnapshotImportCmd(opts))
	return cmd
}

func newSnapshotExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <owner-id> <file>",
		Short: "Write an owner's genres and books to a snapshot file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, file := args[0], args[1]
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := newCatalog(cfg)
			if err != nil {
				return err
			}

			snap, err := snapshot.Export(cmd.Context(), c, ownerID)
			if err != nil {
				return fmt.Errorf("export %s: %w", ownerID, err)
			}
			if err := snapshot.WriteFile(file, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d books in %d genres to %s\n", snap.BookCount(), len(snap.Genres), file)
			return nil
		},
	}
}

func newSnapshotImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create a new owner from a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := newCatalog(cfg)
			if err != nil {
				return err
			}

			snap, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}
			report, err := snapshot.Import(cmd.Context(), c, snap)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
