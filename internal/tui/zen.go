package tui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/games/zen"
	"github.com/verte-zerg/tuizen/internal/model"
)

var (
	saveKey   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save"))
	smoothKey = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "smooth sand"))
)

// zenView rakes a sand raster. Each cell shows two pixels stacked with a
// half block, so the surface is twice as tall as the area in cells.
type zenView struct {
	env       *env
	surface   *zen.Surface
	strokes   int
	startedAt time.Time
	width     int
	height    int
}

func newZenView(e *env) *zenView {
	return &zenView{env: e}
}

func (v *zenView) Title() string    { return "Zen" }
func (v *zenView) Game() model.Game { return model.GameZen }

func (v *zenView) Mount() tea.Cmd {
	v.startedAt = v.env.now()
	v.strokes = 0
	return nil
}

func (v *zenView) Unmount() {
	if v.surface != nil {
		v.surface.EndStroke()
	}
	if v.strokes > 0 {
		v.env.record(string(model.GameZen), v.startedAt, v.strokes)
		v.strokes = 0
	}
}

// Resize keeps the garden: raking already done is copied onto the resized
// surface from the top-left corner.
func (v *zenView) Resize(width, height int) {
	v.width, v.height = width, height
	w, h := width, (height-1)*2
	if w <= 0 || h <= 0 {
		return
	}
	if v.surface != nil {
		b := v.surface.Image().Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
	}
	next := zen.NewSurface(w, h, v.env.palette().sand)
	if old := v.surface; old != nil {
		next.SetRakeWidth(old.RakeWidth())
		draw.Draw(next.Image(), old.Image().Bounds(), old.Image(), image.Point{}, draw.Src)
	}
	v.surface = next
}

func (v *zenView) PreferencesChanged(model.Preferences) tea.Cmd {
	if v.surface == nil || v.surface.Base() == v.env.palette().sand {
		return nil
	}
	v.surface.SetBase(v.env.palette().sand)
	if v.surface.Stamps() == 0 {
		v.surface.Smooth()
	}
	return nil
}

func (v *zenView) Bindings() []key.Binding {
	return []key.Binding{
		clickHint("rake"),
		relabel(upKey, "+/-", "rake width"),
		smoothKey,
		saveKey,
	}
}

func (v *zenView) Update(msg tea.Msg) tea.Cmd {
	if v.surface == nil {
		return nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, upKey):
			v.surface.SetRakeWidth(v.surface.RakeWidth() + 2)
		case key.Matches(msg, downKey):
			v.surface.SetRakeWidth(v.surface.RakeWidth() - 2)
		case key.Matches(msg, smoothKey):
			v.surface.Smooth()
			return logEvent("smooth", nil)
		case key.Matches(msg, saveKey):
			return v.save()
		}
	case tea.MouseMsg:
		return v.handleMouse(msg)
	}
	return nil
}

func (v *zenView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X, (msg.Y-1)*2
	inside := games.Bounds{Width: v.surface.Image().Bounds().Dx(), Height: v.surface.Image().Bounds().Dy()}.Contains(x, y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return nil
		}
		if v.surface.BeginStroke(x, y) {
			v.env.chime(games.RakeChime)
		}
	case tea.MouseActionMotion:
		if !v.surface.Stroking() {
			return nil
		}
		if !inside {
			return v.endStroke()
		}
		if v.surface.Move(x, y) {
			v.env.chime(games.RakeChime)
		}
	case tea.MouseActionRelease:
		if v.surface.Stroking() {
			return v.endStroke()
		}
	}
	return nil
}

func (v *zenView) endStroke() tea.Cmd {
	v.surface.EndStroke()
	v.strokes++
	return logEvent("stroke", map[string]any{"rakeWidth": v.surface.RakeWidth()})
}

// save serializes the garden. Encoding failures are logged and dropped.
func (v *zenView) save() tea.Cmd {
	data, err := v.surface.DataURL()
	if err != nil {
		v.env.logger.Debug("zen encode failed", zap.Error(err))
		return nil
	}
	return emit(zenSaveMsg{ImageData: data, RakeWidth: v.surface.RakeWidth()})
}

func (v *zenView) View() string {
	pal := v.env.palette()
	if v.surface == nil {
		return pal.mutedStyle().Render("measuring the garden...")
	}
	header := pal.accentStyle().Render(fmt.Sprintf("Rake width %d", v.surface.RakeWidth()))
	lines := []string{header}
	img := v.surface.Image()
	b := img.Bounds()
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		lines = append(lines, renderPixelRow(img, y))
	}
	return strings.Join(lines, "\n")
}

// renderPixelRow draws pixel rows y and y+1 as one line of half blocks,
// merging runs of equal color pairs into a single styled span.
func renderPixelRow(img *image.RGBA, y int) string {
	b := img.Bounds()
	var out strings.Builder
	var top, bottom color.RGBA
	run := 0
	flush := func() {
		if run == 0 {
			return
		}
		out.WriteString(lipgloss.NewStyle().
			Foreground(hexColor(top)).
			Background(hexColor(bottom)).
			Render(strings.Repeat("▀", run)))
		run = 0
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		t, bt := img.RGBAAt(x, y), img.RGBAAt(x, y+1)
		if run > 0 && (t != top || bt != bottom) {
			flush()
		}
		top, bottom = t, bt
		run++
	}
	flush()
	return out.String()
}
