package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuizen/internal/breathing"
	"github.com/verte-zerg/tuizen/internal/games"
)

func TestBreathingTicksThroughPhases(t *testing.T) {
	e, sound := newTestEnv(t, nil)
	v := newBreathingView(e)

	require.NotNil(t, v.Update(spaceKey))
	require.True(t, v.timer.Running())

	for i := 0; i < 4; i++ {
		require.NotNil(t, v.Update(v.timer.Pending()))
	}
	st := v.machine.State()
	assert.Equal(t, breathing.Hold, st.Phase)
	assert.Equal(t, 4, st.SecondsRemaining)
	assert.Equal(t, 1, sound.played(games.PhaseChime.Freq))
}

func TestBreathingHaltsAndRecordsAfterMaxCycles(t *testing.T) {
	st := openStore(t)
	e, sound := newTestEnv(t, st)
	v := newBreathingView(e)
	v.Update(spaceKey)

	ticks := breathing.Profiles[0].CycleSeconds() * breathing.MaxCycles
	for i := 0; i < ticks; i++ {
		v.Update(v.timer.Pending())
	}
	assert.True(t, v.machine.Halted())
	assert.False(t, v.timer.Running())
	assert.Equal(t, 1, sound.played(games.FinishChime.Freq))

	recs := activities(t, st)
	require.Len(t, recs, 1)
	assert.Equal(t, "breathing", recs[0].Activity)
	assert.Equal(t, breathing.MaxCycles, recs[0].Detail)

	assert.Nil(t, v.Update(v.timer.Pending()))
}

func TestBreathingProfileSwitchResets(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBreathingView(e)
	v.Update(spaceKey)
	v.Update(v.timer.Pending())

	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.False(t, v.timer.Running())
	st := v.machine.State()
	assert.False(t, st.Active)
	assert.Equal(t, breathing.Inhale, st.Phase)
	assert.Equal(t, breathing.Profiles[1].Inhale, st.SecondsRemaining)
	assert.Equal(t, breathing.Profiles[1].Name, v.machine.Profile().Name)

	v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, breathing.Profiles[len(breathing.Profiles)-1].Name, v.machine.Profile().Name)
}

func TestBreathingStaleTickIgnored(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBreathingView(e)
	v.Update(spaceKey)
	stale := v.timer.Pending()
	v.Update(spaceKey)
	v.Update(spaceKey)

	assert.Nil(t, v.Update(stale))
	assert.Equal(t, breathing.Profiles[0].Inhale, v.machine.State().SecondsRemaining)
}

func TestBreathingUnmountStops(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBreathingView(e)
	v.Update(spaceKey)
	v.Unmount()
	assert.False(t, v.timer.Running())
	assert.False(t, v.machine.State().Active)
}

func TestBreathingViewFollowsTimer(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBreathingView(e)
	assert.Contains(t, v.View(), "press space to begin")

	v.Update(spaceKey)
	assert.Contains(t, v.View(), "INHALE  4s")

	v.Update(spaceKey)
	assert.False(t, v.timer.Running())
	assert.Contains(t, v.View(), "press space to begin")
}
