package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.Interval.Duration != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", cfg.Scan.Interval.Duration)
	}
	if cfg.Mode != "scan" {
		t.Errorf("mode = %q, want scan", cfg.Mode)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
mode = "watch"
log_level = "debug"

[scan]
interval = "2m"
concurrency = 3
min_profit_percentage = 1.5

[sources]
enabled = ["milli", "talapp"]

[notify]
telegram_token = "tok"
telegram_chat_id = "42"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "watch" {
		t.Errorf("mode = %q, want watch", cfg.Mode)
	}
	if cfg.Scan.Interval.Duration != 2*time.Minute {
		t.Errorf("interval = %v, want 2m", cfg.Scan.Interval.Duration)
	}
	if cfg.Scan.Concurrency != 3 {
		t.Errorf("concurrency = %d, want 3", cfg.Scan.Concurrency)
	}
	if cfg.Scan.MinProfitPercentage != 1.5 {
		t.Errorf("min profit = %v, want 1.5", cfg.Scan.MinProfitPercentage)
	}
	if len(cfg.Sources.Enabled) != 2 || cfg.Sources.Enabled[0] != "milli" {
		t.Errorf("enabled sources = %v", cfg.Sources.Enabled)
	}
	// File values merge over defaults: untouched sections keep their defaults.
	if cfg.Scan.Timeout.Duration != 30*time.Second {
		t.Errorf("timeout = %v, want default 30s", cfg.Scan.Timeout.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOLDARB_MODE", "full")
	t.Setenv("GOLDARB_SCAN_INTERVAL", "90s")
	t.Setenv("GOLDARB_SCAN_CONCURRENCY", "8")
	t.Setenv("GOLDARB_SOURCES_ENABLED", "goldika, melli")
	t.Setenv("GOLDARB_REDIS_TLS_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "full" {
		t.Errorf("mode = %q, want full", cfg.Mode)
	}
	if cfg.Scan.Interval.Duration != 90*time.Second {
		t.Errorf("interval = %v, want 90s", cfg.Scan.Interval.Duration)
	}
	if cfg.Scan.Concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", cfg.Scan.Concurrency)
	}
	want := []string{"goldika", "melli"}
	if len(cfg.Sources.Enabled) != 2 || cfg.Sources.Enabled[0] != want[0] || cfg.Sources.Enabled[1] != want[1] {
		t.Errorf("enabled sources = %v, want %v", cfg.Sources.Enabled, want)
	}
	if !cfg.Redis.TLSEnabled {
		t.Error("redis TLS should be enabled")
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.Scan.Interval.Duration = 0
	cfg.Server.Port = 0
	cfg.Notify.TelegramToken = "tok" // chat id missing

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	msg := err.Error()
	for _, want := range []string{"mode", "scan.interval", "server.port", "telegram_chat_id"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}
