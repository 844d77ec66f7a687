// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice    PracticeConfig    `toml:"practice"`
	API         APIConfig         `toml:"api"`
	Goals       GoalsConfig       `toml:"goals"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Log         LogConfig         `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Source     *string  `toml:"source"`
	Words      *int     `toml:"words"`
	CapsPct    *float64 `toml:"caps"`
	PunctPct   *float64 `toml:"punct"`
	PunctSet   *string  `toml:"punct-set"`
	WordList   *string  `toml:"wordlist"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
}

// APIConfig maps the dynamic prompt endpoint settings.
type APIConfig struct {
	Enabled     *bool    `toml:"enabled"`
	Endpoint    *string  `toml:"endpoint"`
	Model       *string  `toml:"model"`
	KeyEnv      *string  `toml:"key-env"`
	Temperature *float64 `toml:"temperature"`
	MaxTokens   *int     `toml:"max-tokens"`
	TimeoutSec  *int     `toml:"timeout"`
}

// GoalsConfig maps the default daily targets for a fresh profile.
type GoalsConfig struct {
	DailyWords *int `toml:"daily-words"`
	DailyXP    *int `toml:"daily-xp"`
}

// LeaderboardConfig maps leaderboard settings.
type LeaderboardConfig struct {
	Name          *string `toml:"name"`
	AccuracyBlend *string `toml:"accuracy-blend"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// StringOr dereferences v or returns fallback.
func StringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// IntOr dereferences v or returns fallback.
func IntOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// FloatOr dereferences v or returns fallback.
func FloatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// BoolOr dereferences v or returns fallback.
func BoolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
