// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Preferences PreferencesConfig `toml:"preferences"`
	Meditation  MeditationConfig  `toml:"meditation"`
	Telemetry   TelemetryConfig   `toml:"telemetry"`
	Log         LogConfig         `toml:"log"`
}

// PreferencesConfig maps the shared mini-game settings.
type PreferencesConfig struct {
	Difficulty *string `toml:"difficulty"`
	Theme      *string `toml:"theme"`
	Sound      *bool   `toml:"sound"`
}

// MeditationConfig maps narration settings.
type MeditationConfig struct {
	Narration *bool   `toml:"narration"`
	SpeechCmd *string `toml:"speech-command"`
}

// TelemetryConfig maps the remote games API settings.
type TelemetryConfig struct {
	Endpoint *string `toml:"endpoint"`
	Timeout  *string `toml:"timeout"`
	UserID   *string `toml:"user-id"`
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
