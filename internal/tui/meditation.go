package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/meditation"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/phasetimer"
)

var narrationKey = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "narration"))

type meditationView struct {
	env       *env
	ctrl      *meditation.Controller
	timer     *phasetimer.Timer
	bar       progress.Model
	script    int
	duration  int
	startedAt time.Time
	width     int
	height    int
}

func newMeditationView(e *env, narrator meditation.Narrator, narration bool) *meditationView {
	duration := 0
	for i, d := range meditation.Durations {
		if d == meditation.DefaultDuration {
			duration = i
		}
	}
	v := &meditationView{
		env:      e,
		ctrl:     meditation.NewController(meditation.Scripts[0], meditation.Durations[duration], narrator, e.logger),
		timer:    phasetimer.New(),
		bar:      progress.New(progress.WithoutPercentage()),
		duration: duration,
	}
	v.ctrl.SetNarration(narration)
	return v
}

func (v *meditationView) Title() string    { return "Meditation" }
func (v *meditationView) Game() model.Game { return "" }
func (v *meditationView) Mount() tea.Cmd   { return nil }

func (v *meditationView) Unmount() {
	v.timer.Stop()
	v.ctrl.Close()
}

func (v *meditationView) Resize(width, height int) {
	v.width, v.height = width, height
	v.bar.Width = clampInt(width/2, 10, 60)
}

func (v *meditationView) PreferencesChanged(model.Preferences) tea.Cmd { return nil }

func (v *meditationView) Bindings() []key.Binding {
	return []key.Binding{
		toggleKey,
		relabel(leftKey, "←/→", "script"),
		relabel(upKey, "↑/↓", "length"),
		narrationKey,
	}
}

func (v *meditationView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		live, next := v.timer.Handle(msg)
		if !live {
			return nil
		}
		if v.ctrl.Tick() {
			v.timer.Stop()
			v.env.chime(games.FinishChime)
			v.env.record("meditation", v.startedAt, v.ctrl.State().DurationSeconds)
			return nil
		}
		return next
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, toggleKey):
			return v.toggle()
		case key.Matches(msg, leftKey):
			v.selectScript(v.script - 1)
		case key.Matches(msg, rightKey):
			v.selectScript(v.script + 1)
		case key.Matches(msg, upKey):
			v.selectDuration(v.duration + 1)
		case key.Matches(msg, downKey):
			v.selectDuration(v.duration - 1)
		case key.Matches(msg, narrationKey):
			v.ctrl.SetNarration(!v.ctrl.Narration())
		}
	}
	return nil
}

func (v *meditationView) toggle() tea.Cmd {
	if v.ctrl.State().Running {
		v.ctrl.Pause()
		v.timer.Stop()
		return nil
	}
	st := v.ctrl.State()
	if st.SecondsRemaining == 0 || st.SecondsRemaining == st.DurationSeconds {
		v.startedAt = v.env.now()
	}
	v.ctrl.Start()
	return v.timer.Start(time.Second)
}

// Script and length changes are ignored while the session runs.
func (v *meditationView) selectScript(idx int) {
	n := len(meditation.Scripts)
	idx = (idx%n + n) % n
	if v.ctrl.SetScript(meditation.Scripts[idx]) {
		v.script = idx
	}
}

func (v *meditationView) selectDuration(idx int) {
	if idx < 0 || idx >= len(meditation.Durations) {
		return
	}
	if v.ctrl.SetDuration(meditation.Durations[idx]) {
		v.duration = idx
	}
}

func (v *meditationView) View() string {
	pal := v.env.palette()
	st := v.ctrl.State()

	lines := []string{
		pal.accentStyle().Render(st.Script.Name),
		pal.mutedStyle().Render(st.Script.Description),
		"",
		pal.textStyle().Render(formatClock(st.SecondsRemaining)),
		"",
	}

	width := clampInt(v.width*2/3, 20, 72)
	prompt := st.Prompt()
	switch {
	case st.SecondsRemaining == 0:
		prompt = meditation.ClosingLine
	case !st.Running && st.Elapsed() == 0:
		prompt = "Press space when you are ready."
	}
	wrapped := wrapStyledRunes(styleText(prompt, pal.textStyle()), width)
	lines = append(lines, strings.Split(wrapped, "\n")...)

	elapsed := 0.0
	if st.DurationSeconds > 0 {
		elapsed = float64(st.Elapsed()) / float64(st.DurationSeconds)
	}
	narration := "narration off"
	if v.ctrl.Narration() {
		narration = "narration on"
	}
	lines = append(lines, "", v.bar.ViewAs(elapsed),
		pal.mutedStyle().Render(fmt.Sprintf("%d min · %s", st.DurationSeconds/60, narration)))

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if v.width == 0 || v.height == 0 {
		return block
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, block)
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
