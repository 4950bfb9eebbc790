package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"snapsort/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently finalized batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			batches, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(batches) == 0 {
				fmt.Fprintln(out, "No batches recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				dest := "-"
				if b.Destination != "" {
					dest = filepath.Base(b.Destination)
				}
				rows = append(rows, []string{
					b.FinalizedAt.Local().Format("2006-01-02 15:04"),
					b.Category + " - " + b.Subcategory,
					string(b.Status),
					fmt.Sprintf("%d/%d", b.Moved, b.Staged),
					dest,
				})
			}
			fmt.Fprint(out, renderTable([]string{"When", "Label", "Status", "Files", "Destination"}, rows, 3))

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("load stats: %w", err)
			}
			fmt.Fprintf(out, "\nTotal: %d finalized, %d failed\n",
				stats[history.StatusFinalized], stats[history.StatusFailed])
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches to show")
	return cmd
}
