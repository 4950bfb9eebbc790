package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snapsort/internal/config"
)

func TestLoadDefaultsUseEnvTokenAndExpandPaths(t *testing.T) {
	t.Setenv("SNAPSORT_BOT_TOKEN", "123:test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Telegram.BotToken != "123:test-token" {
		t.Fatalf("expected bot token from env, got %q", cfg.Telegram.BotToken)
	}
	wantOutput := filepath.Join(tempHome, "snapsort", "output")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Paths.StagingDir != filepath.Join(wantOutput, "_inbox") {
		t.Fatalf("expected staging dir under output root, got %q", cfg.Paths.StagingDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "snapsort", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Collector.TriggerPhrase != "sending photos" {
		t.Fatalf("unexpected trigger phrase: %q", cfg.Collector.TriggerPhrase)
	}
	if !cfg.Collector.AllowImageDocuments {
		t.Fatal("expected image documents allowed by default")
	}
	if cfg.Telegram.PollTimeoutSeconds != 30 {
		t.Fatalf("unexpected poll timeout: %d", cfg.Telegram.PollTimeoutSeconds)
	}
	if cfg.Telegram.TargetChatID != 0 {
		t.Fatalf("expected no target chat by default, got %d", cfg.Telegram.TargetChatID)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if cfg.Notifications.NtfyTopic != "" {
		t.Fatalf("expected notifications disabled by default, got topic %q", cfg.Notifications.NtfyTopic)
	}
}

func TestLoadReadsFileAndDerivesStagingDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	outputDir := filepath.Join(tempHome, "shots")
	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[telegram]
bot_token = "999:file-token"
target_chat_id = -100123456

[collector]
trigger_phrase = "  Sending Photos  "
allow_image_documents = false

[paths]
output_dir = "` + outputDir + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Telegram.BotToken != "999:file-token" {
		t.Fatalf("unexpected bot token: %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.TargetChatID != -100123456 {
		t.Fatalf("unexpected target chat: %d", cfg.Telegram.TargetChatID)
	}
	if cfg.Collector.TriggerPhrase != "Sending Photos" {
		t.Fatalf("expected trimmed trigger phrase, got %q", cfg.Collector.TriggerPhrase)
	}
	if cfg.Collector.AllowImageDocuments {
		t.Fatal("expected image documents disabled via file")
	}
	if cfg.Paths.OutputDir != outputDir {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.StagingDir != filepath.Join(outputDir, "_inbox") {
		t.Fatalf("expected staging dir derived from output dir, got %q", cfg.Paths.StagingDir)
	}
}

func TestLoadRespectsExplicitStagingDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	stagingDir := filepath.Join(tempHome, "holding")
	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[telegram]
bot_token = "999:file-token"

[paths]
staging_dir = "` + stagingDir + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StagingDir != stagingDir {
		t.Fatalf("unexpected staging dir: %q", cfg.Paths.StagingDir)
	}
}

func TestLoadRejectsMissingBotToken(t *testing.T) {
	t.Setenv("SNAPSORT_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing bot token")
	}
	if !strings.Contains(err.Error(), "telegram.bot_token is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsPollTimeoutOutOfRange(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[telegram]
bot_token = "999:file-token"
poll_timeout_seconds = 90
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for out-of-range poll timeout")
	}
	if !strings.Contains(err.Error(), "poll_timeout_seconds") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("SNAPSORT_BOT_TOKEN", "123:test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(configPath); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Collector.TriggerPhrase != config.Default().Collector.TriggerPhrase {
		t.Fatalf("unexpected trigger phrase: %q", cfg.Collector.TriggerPhrase)
	}
}

func TestExpandPathResolvesTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	expanded, err := config.ExpandPath("~/snapsort/output")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if expanded != filepath.Join(tempHome, "snapsort", "output") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	tempHome := t.TempDir()

	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(tempHome, "out")
	cfg.Paths.StagingDir = filepath.Join(tempHome, "out", "_inbox")
	cfg.Paths.LogDir = filepath.Join(tempHome, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected directory at %s", dir)
		}
	}
}
