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
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Duration    *int    `toml:"duration"`
	Start       *string `toml:"start"`
	GuestScores *bool   `toml:"guest-scores"`
	TextsFile   *string `toml:"texts-file"`
}

// LeaderboardConfig maps leaderboard settings.
type LeaderboardConfig struct {
	Limit *int `toml:"limit"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
