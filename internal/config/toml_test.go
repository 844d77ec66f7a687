package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Words != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
source = "static"
words = 30

[api]
enabled = false
max-tokens = 80

[goals]
daily-words = 750

[leaderboard]
accuracy-blend = "pairwise"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if StringOr(cfg.Practice.Source, "") != "static" || IntOr(cfg.Practice.Words, 0) != 30 {
		t.Fatalf("unexpected practice section: %+v", cfg.Practice)
	}
	if BoolOr(cfg.API.Enabled, true) || IntOr(cfg.API.MaxTokens, 0) != 80 {
		t.Fatalf("unexpected api section: %+v", cfg.API)
	}
	if IntOr(cfg.Goals.DailyWords, 0) != 750 {
		t.Fatalf("unexpected goals section")
	}
	if StringOr(cfg.Leaderboard.AccuracyBlend, "mean") != "pairwise" {
		t.Fatalf("unexpected leaderboard section")
	}
	if FloatOr(cfg.API.Temperature, 0.7) != 0.7 {
		t.Fatalf("expected fallback temperature")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
