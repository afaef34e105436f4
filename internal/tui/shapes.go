package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/games/shapes"
	"github.com/verte-zerg/tuizen/internal/model"
)

// Slot geometry in cells.
const (
	slotWidth  = 7
	slotStride = slotWidth + 1
	slotHeight = 3
	targetsTop = 2
	piecesTop  = 7
)

var (
	pickKey  = key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "pick/drop"))
	resetKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new board"))
)

var (
	solidGlyph = map[shapes.Kind]string{
		shapes.Circle:   "●",
		shapes.Square:   "■",
		shapes.Triangle: "▲",
	}
	outlineGlyph = map[shapes.Kind]string{
		shapes.Circle:   "○",
		shapes.Square:   "□",
		shapes.Triangle: "△",
	}
)

// shapesView sorts pieces onto matching targets with the mouse (press on a
// piece, release on a target) or with the keyboard.
type shapesView struct {
	env       *env
	board     *shapes.Board
	startedAt time.Time
	done      bool

	pieceCursor  int
	targetCursor int
	holding      bool

	dragging bool
	dragID   int
	pointerX int
	pointerY int
}

func newShapesView(e *env) *shapesView {
	v := &shapesView{env: e}
	v.newBoard()
	return v
}

func (v *shapesView) Title() string    { return "Shapes" }
func (v *shapesView) Game() model.Game { return model.GameShapes }

func (v *shapesView) Mount() tea.Cmd {
	v.startedAt = v.env.now()
	return nil
}

func (v *shapesView) Unmount() {
	v.holding = false
	v.dragging = false
}

func (v *shapesView) Resize(int, int) {}

func (v *shapesView) PreferencesChanged(prev model.Preferences) tea.Cmd {
	if prev.Difficulty != v.env.prefs.Difficulty {
		v.newBoard()
	}
	return nil
}

func (v *shapesView) Bindings() []key.Binding {
	return []key.Binding{
		relabel(leftKey, "←/→", "select"),
		pickKey,
		escKey,
		resetKey,
		clickHint("drag"),
	}
}

func (v *shapesView) newBoard() {
	v.board = shapes.New(shapes.SlotsFor(v.env.prefs.Difficulty), v.env.rng)
	v.startedAt = v.env.now()
	v.done = false
	v.pieceCursor, v.targetCursor = 0, 0
	v.holding, v.dragging = false, false
}

func (v *shapesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.MouseMsg:
		return v.handleMouse(msg)
	}
	return nil
}

func (v *shapesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	pieces := v.board.Pieces()
	targets := v.board.Targets()
	switch {
	case key.Matches(msg, resetKey):
		v.newBoard()
	case key.Matches(msg, escKey):
		v.holding = false
	case key.Matches(msg, leftKey), key.Matches(msg, rightKey):
		step := 1
		if key.Matches(msg, leftKey) {
			step = -1
		}
		if v.holding {
			v.targetCursor = wrapIndex(v.targetCursor+step, len(targets))
		} else {
			v.pieceCursor = wrapIndex(v.pieceCursor+step, len(pieces))
		}
	case key.Matches(msg, pickKey):
		if len(pieces) == 0 {
			return nil
		}
		if !v.holding {
			v.holding = true
			return nil
		}
		cmd := v.drop(pieces[v.pieceCursor].ID, targets[v.targetCursor].ID)
		if cmd != nil {
			v.holding = false
			v.pieceCursor = wrapIndex(v.pieceCursor, len(v.board.Pieces()))
		}
		return cmd
	}
	return nil
}

func (v *shapesView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	v.pointerX, v.pointerY = msg.X, msg.Y
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if i, ok := slotAt(msg.X, msg.Y, piecesTop); ok && i < len(v.board.Pieces()) {
			v.dragging = true
			v.dragID = v.board.Pieces()[i].ID
			v.holding = false
		}
	case tea.MouseActionRelease:
		if !v.dragging {
			return nil
		}
		v.dragging = false
		if i, ok := slotAt(msg.X, msg.Y, targetsTop); ok && i < len(v.board.Targets()) {
			cmd := v.drop(v.dragID, v.board.Targets()[i].ID)
			v.pieceCursor = wrapIndex(v.pieceCursor, len(v.board.Pieces()))
			return cmd
		}
	}
	return nil
}

// drop returns nil when the board rejected the placement.
func (v *shapesView) drop(pieceID, targetID int) tea.Cmd {
	if v.done || !v.board.Drop(pieceID, targetID) {
		return nil
	}
	v.env.chime(games.PlaceChime)
	placed, total := v.board.Placed(), len(v.board.Targets())
	cmds := []tea.Cmd{logEvent("place", map[string]any{"placed": placed, "total": total})}
	if v.board.Complete() {
		v.done = true
		v.env.chime(games.DoneChime)
		v.env.record(string(model.GameShapes), v.startedAt, placed)
		cmds = append(cmds, logEvent("complete", map[string]any{"total": total}))
	}
	return tea.Batch(cmds...)
}

// slotAt maps a cell to a slot index within the row starting at top.
func slotAt(x, y, top int) (int, bool) {
	if x < 0 || y < top || y >= top+slotHeight || x%slotStride >= slotWidth {
		return 0, false
	}
	return x / slotStride, true
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i%n + n) % n
}

func (v *shapesView) View() string {
	pal := v.env.palette()
	targets := v.board.Targets()
	pieces := v.board.Pieces()

	status := fmt.Sprintf("Placed %d/%d", v.board.Placed(), len(targets))
	if v.done {
		status += "  ·  all sorted, press r for a new board"
	}
	lines := []string{pal.accentStyle().Render(status), ""}

	targetCells := make([]string, len(targets))
	for i, t := range targets {
		glyph := outlineGlyph[t.Kind]
		if t.Filled {
			glyph = solidGlyph[t.Kind]
		}
		targetCells[i] = v.slot(glyph, v.holding && i == v.targetCursor, t.Filled)
	}
	lines = append(lines, joinSlots(targetCells)...)
	lines = append(lines, "", pal.mutedStyle().Render("pieces"))

	pieceCells := make([]string, len(pieces))
	for i, p := range pieces {
		active := i == v.pieceCursor && !v.done
		if v.dragging {
			active = p.ID == v.dragID
		}
		pieceCells[i] = v.slot(solidGlyph[p.Kind], active, false)
	}
	lines = append(lines, joinSlots(pieceCells)...)
	if v.holding && len(pieces) > 0 {
		lines = append(lines, "", pal.mutedStyle().Render("holding "+solidGlyph[pieces[v.pieceCursor].Kind]+", choose a target"))
	}
	return strings.Join(lines, "\n")
}

func (v *shapesView) slot(glyph string, active, filled bool) string {
	pal := v.env.palette()
	border := lipgloss.NormalBorder()
	color := pal.muted
	switch {
	case active:
		border = lipgloss.ThickBorder()
		color = pal.accent
	case filled:
		color = pal.text
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Foreground(color).
		Width(slotWidth - 2).
		Align(lipgloss.Center).
		Render(glyph)
}

func joinSlots(cells []string) []string {
	if len(cells) == 0 {
		return make([]string, slotHeight)
	}
	spaced := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, c)
	}
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, spaced...), "\n")
}
