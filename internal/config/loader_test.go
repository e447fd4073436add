package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/beifenbot/internal/config"
)

// Not parallel: viper keeps global state between Load calls.

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "telegram:\n  token: \"123:abc\"\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, config.DefaultLogLevel)
	}
	if cfg.Search.PageSize != config.DefaultPageSize {
		t.Errorf("Search.PageSize = %d, want %d", cfg.Search.PageSize, config.DefaultPageSize)
	}
	if cfg.Search.PreviewLength != config.DefaultPreviewLength {
		t.Errorf("Search.PreviewLength = %d, want %d", cfg.Search.PreviewLength, config.DefaultPreviewLength)
	}
	if cfg.Search.SessionTTL != config.DefaultSessionTTL {
		t.Errorf("Search.SessionTTL = %v, want %v", cfg.Search.SessionTTL, config.DefaultSessionTTL)
	}
	if cfg.Messages.Help == "" {
		t.Error("Messages.Help should have a default")
	}
	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task default missing or disabled: %+v", cfg.Scheduler.Tasks)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123:abc"
  archive_chat_id: -100200300
search:
  page_size: 5
  preview_length: 40
  session_ttl: 2h
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Telegram.ArchiveChatID != -100200300 {
		t.Errorf("ArchiveChatID = %d, want %d", cfg.Telegram.ArchiveChatID, int64(-100200300))
	}
	if cfg.Search.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", cfg.Search.PageSize)
	}
	if cfg.Search.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.Search.SessionTTL)
	}
}

func TestLoadRejectsMissingToken(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: info\n")

	if _, err := config.Load(path); err == nil {
		t.Fatal("Load() should fail without a telegram token")
	}
}

func TestLoadRejectsInvalidPageSize(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123:abc"
search:
  page_size: 0
`)

	if _, err := config.Load(path); err == nil {
		t.Fatal("Load() should fail with a zero page size")
	}
}
