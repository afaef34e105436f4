package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig holds TUIZEN_* overrides. Unset variables stay nil.
type EnvConfig struct {
	Endpoint   *string `env:"TUIZEN_API_URL"`
	Timeout    *string `env:"TUIZEN_API_TIMEOUT"`
	UserID     *string `env:"TUIZEN_USER_ID"`
	Difficulty *string `env:"TUIZEN_DIFFICULTY"`
	Theme      *string `env:"TUIZEN_THEME"`
	Sound      *bool   `env:"TUIZEN_SOUND"`
	Narration  *bool   `env:"TUIZEN_NARRATION"`
	SpeechCmd  *string `env:"TUIZEN_SPEECH_COMMAND"`
	LogLevel   *string `env:"TUIZEN_LOG_LEVEL"`
}

// LoadEnv loads the optional dotenv file, then parses the environment.
// Variables already set in the process win over the dotenv file.
func LoadEnv(dotenvPath string) (EnvConfig, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return EnvConfig{}, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
			}
		}
	}
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Merge overlays environment values onto the file config.
func Merge(file FileConfig, e EnvConfig) FileConfig {
	pick := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	pick(&file.Telemetry.Endpoint, e.Endpoint)
	pick(&file.Telemetry.Timeout, e.Timeout)
	pick(&file.Telemetry.UserID, e.UserID)
	pick(&file.Preferences.Difficulty, e.Difficulty)
	pick(&file.Preferences.Theme, e.Theme)
	pick(&file.Meditation.SpeechCmd, e.SpeechCmd)
	pick(&file.Log.Level, e.LogLevel)
	if e.Sound != nil {
		file.Preferences.Sound = e.Sound
	}
	if e.Narration != nil {
		file.Meditation.Narration = e.Narration
	}
	return file
}
