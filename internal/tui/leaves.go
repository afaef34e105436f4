package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuizen/internal/games/leaves"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/phasetimer"
)

// leafGlyphs are indexed by quarter turn of the leaf angle.
var leafGlyphs = []string{"❧", "☙", "❦", "❥"}

// grabRadius is how far from a leaf, in percent of the field, a press
// still picks it up.
const grabRadius = 6.0

// leavesView animates drifting leaves that can be dragged around. The first
// body line is a caption; the field is everything below it.
type leavesView struct {
	env       *env
	field     *leaves.Field
	timer     *phasetimer.Timer
	elapsed   time.Duration
	drags     int
	startedAt time.Time
	width     int
	height    int
}

func newLeavesView(e *env) *leavesView {
	return &leavesView{
		env:   e,
		field: leaves.NewField(leaves.CountFor(e.prefs.Difficulty), e.rng),
		timer: phasetimer.New(),
	}
}

func (v *leavesView) Title() string    { return "Leaves" }
func (v *leavesView) Game() model.Game { return model.GameLeaves }

func (v *leavesView) Mount() tea.Cmd {
	v.startedAt = v.env.now()
	v.drags = 0
	return v.timer.Start(leaves.TickInterval)
}

func (v *leavesView) Unmount() {
	v.timer.Stop()
	v.field.Release()
	if v.drags > 0 {
		v.env.record(string(model.GameLeaves), v.startedAt, v.drags)
		v.drags = 0
	}
}

func (v *leavesView) Resize(width, height int) {
	v.width, v.height = width, height-1
}

func (v *leavesView) PreferencesChanged(prev model.Preferences) tea.Cmd {
	if prev.Difficulty != v.env.prefs.Difficulty {
		v.field = leaves.NewField(leaves.CountFor(v.env.prefs.Difficulty), v.env.rng)
	}
	return nil
}

func (v *leavesView) Bindings() []key.Binding {
	return []key.Binding{clickHint("drag a leaf")}
}

func (v *leavesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		live, next := v.timer.Handle(msg)
		if !live {
			return nil
		}
		v.elapsed += v.timer.Period()
		v.field.Advance(v.elapsed)
		return next
	case tea.MouseMsg:
		return v.handleMouse(msg)
	}
	return nil
}

func (v *leavesView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if v.width <= 0 || v.height <= 0 {
		return nil
	}
	top, left := v.toPercent(msg.X, msg.Y-1)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if id, ok := v.field.LeafAt(top, left, grabRadius); ok {
			v.field.Grab(id)
			v.drags++
		}
	case tea.MouseActionMotion:
		id := v.field.Dragged()
		if id < 0 || !v.field.DragTo(id, top, left) {
			return nil
		}
		l := v.field.Leaves()[id]
		return logEvent("leaf_drag", map[string]any{"id": id, "top": l.Top, "left": l.Left})
	case tea.MouseActionRelease:
		v.field.Release()
	}
	return nil
}

// toPercent maps a field cell to the center of that cell in percent.
func (v *leavesView) toPercent(x, y int) (top, left float64) {
	top = (float64(y) + 0.5) / float64(v.height) * 100
	left = (float64(x) + 0.5) / float64(v.width) * 100
	return top, left
}

func (v *leavesView) View() string {
	pal := v.env.palette()
	caption := pal.mutedStyle().Render(fmt.Sprintf("%d leaves drifting", len(v.field.Leaves())))
	if v.width <= 0 || v.height <= 0 {
		return caption
	}
	grid := make([][]string, v.height)
	for y := range grid {
		grid[y] = make([]string, v.width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	leafStyle := lipgloss.NewStyle().Foreground(pal.leaf)
	heldStyle := pal.accentStyle()
	for _, l := range v.field.Leaves() {
		x := int(l.Left / 100 * float64(v.width))
		y := int(l.Top / 100 * float64(v.height))
		if x < 0 || y < 0 || x >= v.width || y >= v.height {
			continue
		}
		glyph := leafGlyphs[int(l.Angle/90)%len(leafGlyphs)]
		if l.ID == v.field.Dragged() {
			grid[y][x] = heldStyle.Render(glyph)
		} else {
			grid[y][x] = leafStyle.Render(glyph)
		}
	}
	lines := make([]string, 0, v.height+1)
	lines = append(lines, caption)
	for _, row := range grid {
		lines = append(lines, strings.Join(row, ""))
	}
	return strings.Join(lines, "\n")
}
