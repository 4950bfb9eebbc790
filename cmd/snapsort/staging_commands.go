package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"snapsort/internal/logging"
	"snapsort/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect the staging area",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List files waiting in the staging area",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stagingDir := strings.TrimSpace(cfg.Paths.StagingDir)
			if stagingDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Staging directory not configured")
				return nil
			}

			files, err := staging.NewArea(stagingDir).List()
			if err != nil {
				return fmt.Errorf("list staging area: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "Staging area is empty")
				return nil
			}

			fmt.Fprintf(out, "Staging directory: %s\n\n", stagingDir)

			var totalSize int64
			rows := make([][]string, 0, len(files))
			for _, file := range files {
				age := time.Since(file.ModTime).Truncate(time.Minute)
				totalSize += file.Size
				rows = append(rows, []string{file.Name, formatDuration(age), logging.FormatBytes(file.Size)})
			}

			fmt.Fprint(out, renderTable([]string{"File", "Age", "Size"}, rows, 1, 2))
			fmt.Fprintf(out, "\nTotal: %d files, %s\n", len(files), logging.FormatBytes(totalSize))
			return nil
		},
	}
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale files from the staging area",
		Long: `Remove staged files left behind by abandoned or failed batches.

Only files older than the --older-than window are removed, so an actively
collecting batch is never touched. The daemon never deletes staged files on
its own; this command is the only way they go away.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stagingDir := strings.TrimSpace(cfg.Paths.StagingDir)
			if stagingDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Staging directory not configured")
				return nil
			}

			result := staging.NewArea(stagingDir).CleanStale(olderThan, nil)

			out := cmd.OutOrStdout()
			if len(result.Removed) == 0 && len(result.Errors) == 0 {
				fmt.Fprintln(out, "No stale staged files to clean")
				return nil
			}
			if len(result.Errors) > 0 {
				fmt.Fprintf(out, "Removed %d files, %d errors\n", len(result.Removed), len(result.Errors))
				for _, e := range result.Errors {
					fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
				}
				return nil
			}
			fmt.Fprintf(out, "Removed %d stale staged files\n", len(result.Removed))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Minimum age before a staged file is removed")
	return cmd
}

func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	return fmt.Sprintf("%dd", days)
}
