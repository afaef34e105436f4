package tui

import (
	"context"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/store"
	"github.com/verte-zerg/tuizen/internal/tone"
)

type fakeSound struct {
	mu      sync.Mutex
	freqs   []float64
	enabled bool
}

func (f *fakeSound) Play(freq float64, _ time.Duration, _ tone.Waveform) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enabled {
		f.freqs = append(f.freqs, freq)
	}
}

func (f *fakeSound) SetEnabled(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = on
}

func (f *fakeSound) played(freq float64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.freqs {
		if v == freq {
			n++
		}
	}
	return n
}

type fakeNarrator struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
}

func (f *fakeNarrator) Speak(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeNarrator) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
}

var testClock = time.Date(2026, 6, 1, 7, 30, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tuizen.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func newTestEnv(t *testing.T, st *store.Store) (*env, *fakeSound) {
	t.Helper()
	sound := &fakeSound{enabled: true}
	return &env{
		prefs:  model.DefaultPreferences(),
		store:  st,
		sound:  sound,
		logger: zaptest.NewLogger(t),
		rng:    rand.New(rand.NewSource(7)),
		now:    func() time.Time { return testClock },
	}, sound
}

func activities(t *testing.T, st *store.Store) []model.ActivityRecord {
	t.Helper()
	recs, err := st.ListActivities(context.Background(), nil)
	require.NoError(t, err)
	return recs
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var spaceKey = runeKey(' ')

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// drain runs cmd and every command it batches, returning the messages.
// Commands that schedule timer ticks block for one period, so callers only
// drain commands they know are free of long ticks.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func eventsOf(msgs []tea.Msg) []gameEventMsg {
	var out []gameEventMsg
	for _, m := range msgs {
		if ev, ok := m.(gameEventMsg); ok {
			out = append(out, ev)
		}
	}
	return out
}
