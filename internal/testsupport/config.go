package testsupport

import (
	"path/filepath"
	"testing"

	"snapsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test
// and a placeholder bot token. Options are applied last.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Telegram.BotToken = "test-token"
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.StagingDir = filepath.Join(base, "output", "_inbox")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTargetChat restricts the test config to one chat id.
func WithTargetChat(id int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Telegram.TargetChatID = id
	}
}

// WithNtfyTopic points notifications at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithTriggerPhrase overrides the batch trigger phrase.
func WithTriggerPhrase(phrase string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Collector.TriggerPhrase = phrase
	}
}
