package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"snapsort/internal/notifications"
	"snapsort/internal/preflight"
	"snapsort/internal/telegram"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

const checkLabelWidth = 22

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks against the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			bot := telegram.NewClient(cfg)
			results := preflight.RunAll(cmd.Context(), cfg, bot)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			failed := 0
			for _, result := range results {
				fmt.Fprintln(out, renderCheckLine(result, colorize))
				if !result.Passed {
					failed++
				}
			}

			if notify {
				notifier := notifications.NewService(cfg)
				if err := notifier.TestNotification(cmd.Context()); err != nil {
					return fmt.Errorf("send test notification: %w", err)
				}
				fmt.Fprintln(out, "Test notification sent")
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Also send a test notification when checks pass")
	return cmd
}

func renderCheckLine(result preflight.Result, colorize bool) string {
	status := "PASS"
	color := ansiGreen
	if !result.Passed {
		status = "FAIL"
		color = ansiRed
	}
	line := fmt.Sprintf("  %-*s [%s] %s", checkLabelWidth, result.Name+":", status, result.Detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
