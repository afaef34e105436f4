package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/games/bubble"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/phasetimer"
)

var bubbleArt = []string{
	" .--. ",
	"(    )",
	" `--' ",
}

var startRoundKey = key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "start round"))

// bubbleView plays bubble-pop. The first body line is the scoreboard; the
// play surface is everything below it.
type bubbleView struct {
	env       *env
	game      *bubble.Game
	countdown *phasetimer.Timer
	mover     *phasetimer.Timer
	surface   games.Bounds
	startedAt time.Time
	width     int
}

func newBubbleView(e *env) *bubbleView {
	return &bubbleView{
		env:       e,
		game:      bubble.New(bubble.ParamsFor(e.prefs.Difficulty), e.rng),
		countdown: phasetimer.New(),
		mover:     phasetimer.New(),
	}
}

func (v *bubbleView) Title() string    { return "Bubbles" }
func (v *bubbleView) Game() model.Game { return model.GameBubble }
func (v *bubbleView) Mount() tea.Cmd   { return nil }

func (v *bubbleView) Unmount() {
	v.countdown.Stop()
	v.mover.Stop()
	v.game.Abort()
}

func (v *bubbleView) Resize(width, height int) {
	v.width = width
	v.surface = games.Bounds{Width: width, Height: height - 1}
}

func (v *bubbleView) PreferencesChanged(prev model.Preferences) tea.Cmd {
	if prev.Difficulty == v.env.prefs.Difficulty {
		return nil
	}
	v.Unmount()
	v.game = bubble.New(bubble.ParamsFor(v.env.prefs.Difficulty), v.env.rng)
	return nil
}

func (v *bubbleView) Bindings() []key.Binding {
	return []key.Binding{
		startRoundKey,
		clickHint("pop"),
	}
}

func (v *bubbleView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case phasetimer.TickMsg:
		if live, next := v.countdown.Handle(msg); live {
			return v.tickSecond(next)
		}
		if live, next := v.mover.Handle(msg); live {
			v.game.Relocate(v.surface)
			return next
		}
	case tea.KeyMsg:
		if key.Matches(msg, startRoundKey) {
			return v.start()
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return v.click(msg.X, msg.Y-1)
		}
	}
	return nil
}

func (v *bubbleView) start() tea.Cmd {
	if v.game.State().Playing {
		return nil
	}
	v.game.Start(v.surface)
	v.startedAt = v.env.now()
	return tea.Batch(
		emit(roundStartMsg{}),
		v.countdown.Start(time.Second),
		v.mover.Start(v.game.Params().MoveEvery),
	)
}

func (v *bubbleView) tickSecond(next tea.Cmd) tea.Cmd {
	if !v.game.TickSecond() {
		return next
	}
	v.countdown.Stop()
	v.mover.Stop()
	score := v.game.State().Score
	v.env.chime(games.DoneChime)
	v.env.record(string(model.GameBubble), v.startedAt, score)
	return emit(roundOverMsg{Score: score})
}

func (v *bubbleView) click(x, y int) tea.Cmd {
	if !v.game.HitTest(x, y) || !v.game.Pop() {
		return nil
	}
	v.env.chime(games.PopChime)
	v.game.Relocate(v.surface)
	score := v.game.State().Score
	// Restart the relocation phase so the new spot gets a full interval.
	return tea.Batch(
		v.mover.Start(v.game.Params().MoveEvery),
		logEvent("pop", map[string]any{"score": score}),
	)
}

func (v *bubbleView) View() string {
	pal := v.env.palette()
	st := v.game.State()
	board := fmt.Sprintf("Score %d  ·  %ds", st.Score, st.SecondsRemaining)
	if !st.Playing {
		board = fmt.Sprintf("Score %d  ·  press space for a %ds round", st.Score, v.game.Params().Duration)
	}
	lines := []string{pal.accentStyle().Render(board)}
	if v.surface.Empty() {
		return lines[0]
	}

	size := v.game.Size()
	pos := st.Position
	blank := strings.Repeat(" ", v.surface.Width)
	bubbleStyle := pal.textStyle().Foreground(pal.accent)
	for row := 0; row < v.surface.Height; row++ {
		art := row - pos.Top
		if !st.Playing || art < 0 || art >= size.Height || pos.Left+size.Width > v.surface.Width {
			lines = append(lines, blank)
			continue
		}
		right := v.surface.Width - pos.Left - size.Width
		lines = append(lines, strings.Repeat(" ", pos.Left)+bubbleStyle.Render(bubbleArt[art])+strings.Repeat(" ", right))
	}
	return strings.Join(lines, "\n")
}
