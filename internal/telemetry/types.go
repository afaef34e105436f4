package telemetry

import (
	"encoding/json"
	"time"

	"github.com/verte-zerg/tuizen/internal/model"
)

// Event is a single game interaction.
type Event struct {
	SessionID string         `json:"sessionId"`
	Game      model.Game     `json:"game"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// FinalState is returned when a session is stopped.
type FinalState struct {
	Duration int `json:"duration"`
}

// SessionTotals summarizes every session of a user.
type SessionTotals struct {
	Count   int `json:"count"`
	Seconds int `json:"seconds"`
}

// GameState is the remote per-user state of one game.
type GameState struct {
	UserID      string          `json:"userId"`
	Game        model.Game      `json:"game"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	HighScore   *int            `json:"highScore,omitempty"`
	Sessions    SessionTotals   `json:"sessions"`
}

// ScoreResult reports whether a submitted score is a new best.
type ScoreResult struct {
	IsHighScore bool `json:"isHighScore"`
	HighScore   int  `json:"highScore,omitempty"`
}

// ZenSave is a serialized zen garden.
type ZenSave struct {
	UserID    string `json:"userId"`
	ImageData string `json:"imageData"`
	Theme     string `json:"theme"`
	RakeWidth int    `json:"rakeWidth"`
}

// ZenSummary lists a stored garden without its image.
type ZenSummary struct {
	ID        string `json:"id"`
	Theme     string `json:"theme"`
	RakeWidth int    `json:"rake_width"`
	CreatedAt string `json:"created_at"`
}

// Created parses CreatedAt, returning the zero time when it is malformed.
func (z ZenSummary) Created() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, z.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

type startRequest struct {
	UserID string     `json:"userId"`
	Game   model.Game `json:"game"`
}

type startResponse struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type stopRequest struct {
	SessionID string `json:"sessionId"`
}

type preferencesRequest struct {
	UserID      string            `json:"userId"`
	Game        model.Game        `json:"game"`
	Preferences model.Preferences `json:"preferences"`
}

type scoreRequest struct {
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

type zenSaveResponse struct {
	ID string `json:"id"`
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}
