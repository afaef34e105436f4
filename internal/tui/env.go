package tui

import (
	"context"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/store"
	"github.com/verte-zerg/tuizen/internal/tone"
)

// env is what the shell shares with every mounted activity.
type env struct {
	prefs  model.Preferences
	store  *store.Store
	sound  tone.Player
	logger *zap.Logger
	rng    *rand.Rand
	now    func() time.Time
}

func (e *env) palette() palette {
	return paletteFor(e.prefs.Theme)
}

func (e *env) chime(c games.Chime) {
	c.Play(e.sound)
}

// record appends a finished activity to the local history.
func (e *env) record(activity string, startedAt time.Time, detail int) {
	if e.store == nil {
		return
	}
	rec := model.ActivityRecord{
		Activity:   activity,
		StartedAt:  startedAt,
		EndedAt:    e.now(),
		Detail:     detail,
		Difficulty: e.prefs.Difficulty,
	}
	if _, err := e.store.InsertActivity(context.Background(), rec); err != nil {
		e.logger.Warn("failed to save activity", zap.String("activity", activity), zap.Error(err))
	}
}

// gameEventMsg asks the shell to log an interaction against the open session.
type gameEventMsg struct {
	Type    string
	Payload map[string]any
}

// roundStartMsg reports that a bubble round began.
type roundStartMsg struct{}

// roundOverMsg reports the final score of a bubble round. It is sent once
// per round.
type roundOverMsg struct {
	Score int
}

// zenSaveMsg carries a serialized garden to the shell.
type zenSaveMsg struct {
	ImageData string
	RakeWidth int
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func logEvent(typ string, payload map[string]any) tea.Cmd {
	return emit(gameEventMsg{Type: typ, Payload: payload})
}
