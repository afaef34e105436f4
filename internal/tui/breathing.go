package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuizen/internal/breathing"
	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/phasetimer"
)

type breathingView struct {
	env       *env
	machine   *breathing.Machine
	timer     *phasetimer.Timer
	bar       progress.Model
	profile   int
	startedAt time.Time
	width     int
	height    int
}

func newBreathingView(e *env) *breathingView {
	return &breathingView{
		env:     e,
		machine: breathing.NewMachine(breathing.Profiles[0]),
		timer:   phasetimer.New(),
		bar:     progress.New(progress.WithoutPercentage()),
	}
}

func (v *breathingView) Title() string    { return "Breathing" }
func (v *breathingView) Game() model.Game { return "" }
func (v *breathingView) Mount() tea.Cmd   { return nil }

func (v *breathingView) Unmount() {
	v.timer.Stop()
	v.machine.SetActive(false)
}

func (v *breathingView) Resize(width, height int) {
	v.width, v.height = width, height
	v.bar.Width = clampInt(width/2, 10, 60)
}

func (v *breathingView) PreferencesChanged(model.Preferences) tea.Cmd { return nil }

func (v *breathingView) Bindings() []key.Binding {
	return []key.Binding{
		toggleKey,
		relabel(leftKey, "←/→", "exercise"),
	}
}

func (v *breathingView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		live, next := v.timer.Handle(msg)
		if !live {
			return nil
		}
		return v.tick(next)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, toggleKey):
			return v.toggle()
		case key.Matches(msg, leftKey):
			v.selectProfile(v.profile - 1)
		case key.Matches(msg, rightKey):
			v.selectProfile(v.profile + 1)
		}
	}
	return nil
}

func (v *breathingView) toggle() tea.Cmd {
	if v.machine.Toggle() {
		v.startedAt = v.env.now()
		return v.timer.Start(time.Second)
	}
	v.timer.Stop()
	return nil
}

// selectProfile switches exercise. The machine resets and stops.
func (v *breathingView) selectProfile(idx int) {
	n := len(breathing.Profiles)
	v.profile = (idx%n + n) % n
	v.timer.Stop()
	v.machine.Select(breathing.Profiles[v.profile])
	v.machine.SetActive(false)
}

func (v *breathingView) tick(next tea.Cmd) tea.Cmd {
	if v.machine.Tick() {
		v.env.chime(games.PhaseChime)
	}
	if v.machine.Halted() {
		v.timer.Stop()
		v.env.chime(games.FinishChime)
		v.env.record("breathing", v.startedAt, v.machine.State().CycleCount)
		return nil
	}
	return next
}

func (v *breathingView) View() string {
	pal := v.env.palette()
	p := v.machine.Profile()
	st := v.machine.State()

	var b strings.Builder
	b.WriteString(pal.accentStyle().Render(p.Name))
	b.WriteString("\n")
	b.WriteString(pal.mutedStyle().Render(p.Description))
	b.WriteString("\n\n")

	phase := strings.ToUpper(st.Phase.String())
	switch {
	case v.machine.Halted():
		b.WriteString(pal.textStyle().Render(fmt.Sprintf("%s · done", phase)))
	case v.timer.Running():
		b.WriteString(pal.textStyle().Render(fmt.Sprintf("%s  %ds", phase, st.SecondsRemaining)))
	default:
		b.WriteString(pal.mutedStyle().Render("press space to begin"))
	}
	b.WriteString("\n\n")
	b.WriteString(v.bar.ViewAs(phaseProgress(p, st)))
	b.WriteString("\n")
	b.WriteString(pal.mutedStyle().Render(fmt.Sprintf("cycle %d/%d · %ds per cycle", st.CycleCount, breathing.MaxCycles, p.CycleSeconds())))

	if v.width == 0 || v.height == 0 {
		return b.String()
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, strings.Split(b.String(), "\n")...))
}

// phaseProgress is the elapsed fraction of the current phase.
func phaseProgress(p breathing.Profile, st breathing.State) float64 {
	var total int
	switch st.Phase {
	case breathing.Inhale:
		total = p.Inhale
	case breathing.Hold:
		total = p.Hold
	case breathing.Exhale:
		total = p.Exhale
	case breathing.Hold2:
		total = p.Hold2
	}
	if total <= 0 || !st.Active {
		return 0
	}
	return float64(total-st.SecondsRemaining+1) / float64(total)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
