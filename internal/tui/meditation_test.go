package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/meditation"
)

func TestMeditationRunsToCompletion(t *testing.T) {
	st := openStore(t)
	e, sound := newTestEnv(t, st)
	narrator := &fakeNarrator{}
	v := newMeditationView(e, narrator, true)

	for v.duration > 0 {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 60, v.ctrl.State().DurationSeconds)

	require.NotNil(t, v.Update(spaceKey))
	for i := 0; i < 60; i++ {
		v.Update(v.timer.Pending())
	}
	state := v.ctrl.State()
	assert.False(t, state.Running)
	assert.Equal(t, 0, state.SecondsRemaining)
	assert.False(t, v.timer.Running())
	assert.Equal(t, 1, sound.played(games.FinishChime.Freq))

	require.NotEmpty(t, narrator.spoken)
	assert.Equal(t, meditation.Scripts[0].Prompts[0], narrator.spoken[0])
	assert.Equal(t, meditation.ClosingLine, narrator.spoken[len(narrator.spoken)-1])

	recs := activities(t, st)
	require.Len(t, recs, 1)
	assert.Equal(t, "meditation", recs[0].Activity)
	assert.Equal(t, 60, recs[0].Detail)
}

func TestMeditationScriptLockedWhileRunning(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newMeditationView(e, nil, false)
	v.Update(spaceKey)

	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.script)
	assert.Equal(t, meditation.Scripts[0].ID, v.ctrl.State().Script.ID)
	assert.Equal(t, meditation.DefaultDuration, v.ctrl.State().DurationSeconds)

	v.Update(spaceKey)
	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, v.script)
	assert.Equal(t, meditation.Scripts[1].ID, v.ctrl.State().Script.ID)
	assert.Equal(t, meditation.DefaultDuration, v.ctrl.State().SecondsRemaining)
}

func TestMeditationUnmountSilencesNarration(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	narrator := &fakeNarrator{}
	v := newMeditationView(e, narrator, true)
	v.Update(spaceKey)
	before := narrator.cancels

	v.Unmount()
	assert.Greater(t, narrator.cancels, before)
	assert.False(t, v.ctrl.State().Running)
	assert.False(t, v.timer.Running())
}

func TestMeditationNarrationToggle(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	narrator := &fakeNarrator{}
	v := newMeditationView(e, narrator, false)
	v.Update(spaceKey)
	assert.Empty(t, narrator.spoken)

	v.Update(runeKey('n'))
	assert.True(t, v.ctrl.Narration())
	require.Len(t, narrator.spoken, 1)

	before := narrator.cancels
	v.Update(runeKey('n'))
	assert.False(t, v.ctrl.Narration())
	assert.Greater(t, narrator.cancels, before)
}

func TestMeditationViewShowsClock(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newMeditationView(e, nil, false)
	v.Resize(80, 20)
	assert.Contains(t, v.View(), "03:00")
}
