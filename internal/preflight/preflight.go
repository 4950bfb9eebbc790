package preflight

import (
	"context"

	"snapsort/internal/config"
	"snapsort/internal/telegram"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// BotChecker is the slice of the Telegram client used during preflight.
type BotChecker interface {
	GetMe(ctx context.Context) (telegram.User, error)
}

// RunAll executes all preflight checks for the given config. A nil bot skips
// the Telegram connectivity check so the directory checks still run offline.
func RunAll(ctx context.Context, cfg *config.Config, bot BotChecker) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if bot != nil {
		results = append(results, CheckTelegram(ctx, bot))
	}
	results = append(results, CheckNotificationsFromConfig(cfg))
	return results
}
