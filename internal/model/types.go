// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty scales the mini-games.
type Difficulty string

// Difficulty levels.
const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Difficulties lists levels in cycling order.
var Difficulties = []Difficulty{Easy, Normal, Hard}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (expected easy, normal or hard)", s)
}

// Next returns the following difficulty, wrapping around.
func (d Difficulty) Next() Difficulty {
	for i, known := range Difficulties {
		if d == known {
			return Difficulties[(i+1)%len(Difficulties)]
		}
	}
	return Normal
}

// Themes lists the known color themes in cycling order.
var Themes = []string{"sand", "ocean", "forest", "dusk"}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) string {
	for i, t := range Themes {
		if t == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Preferences is the setting tuple shared by every mini-game.
type Preferences struct {
	Difficulty   Difficulty `json:"difficulty"`
	Theme        string     `json:"theme"`
	SoundEnabled bool       `json:"soundEnabled"`
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() Preferences {
	return Preferences{Difficulty: Normal, Theme: Themes[0], SoundEnabled: true}
}

// Game identifies a mini-game on the wire.
type Game string

// Mini-games.
const (
	GameBubble Game = "bubble"
	GameShapes Game = "shapes"
	GameZen    Game = "zen"
	GameLeaves Game = "leaves"
)

// Config defines runtime settings for the shell.
type Config struct {
	Prefs       Preferences
	UserID      string
	Narration   bool
	SpeechCmd   string
	APIEndpoint string
	APITimeout  time.Duration
}

// ActivityRecord captures one finished activity for the local history.
type ActivityRecord struct {
	Activity  string
	StartedAt time.Time
	EndedAt   time.Time
	// Detail is activity specific: cycles for breathing, seconds for
	// meditation, score or placements for games.
	Detail     int
	Difficulty Difficulty
}

// ActivityAggregate summarizes the history of one activity.
type ActivityAggregate struct {
	Activity   string
	Sessions   int
	DurationMs int64
	BestDetail int
	LastEnded  time.Time
}

// Activities lists every activity name recorded in the local history.
var Activities = []string{"breathing", "meditation", string(GameBubble), string(GameShapes), string(GameZen), string(GameLeaves)}

// HistoryConfig defines filters for the history browser.
type HistoryConfig struct {
	Since    *time.Time
	Activity string
	// Days is the span of the daily-minutes curve.
	Days int
}
