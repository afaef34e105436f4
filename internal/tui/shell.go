// Package tui provides the Bubble Tea activity shell and its activities.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuizen/internal/meditation"
	"github.com/verte-zerg/tuizen/internal/model"
	"github.com/verte-zerg/tuizen/internal/store"
	"github.com/verte-zerg/tuizen/internal/telemetry"
	"github.com/verte-zerg/tuizen/internal/tone"
)

const headerHeight = 2

// activity is one mountable screen. Mouse coordinates passed to Update are
// relative to the top-left corner of the activity's area.
type activity interface {
	Title() string
	// Game returns the telemetry game id, or "" for exercises.
	Game() model.Game
	Mount() tea.Cmd
	// Unmount stops timers and narration. It may be called more than once.
	Unmount()
	Resize(width, height int)
	PreferencesChanged(prev model.Preferences) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Bindings() []key.Binding
}

// Sound is the shared chime output with its on/off switch.
type Sound interface {
	tone.Player
	SetEnabled(on bool)
}

type silentSound struct {
	tone.Silent
}

func (silentSound) SetEnabled(bool) {}

// Options wires the shell to its collaborators. Only Telemetry is required.
type Options struct {
	Config    model.Config
	Store     *store.Store
	Telemetry *telemetry.Client
	Sound     Sound
	Narrator  meditation.Narrator
	Logger    *zap.Logger
	Rand      *rand.Rand
	Now       func() time.Time
}

type sessionHandle struct {
	id        string
	game      model.Game
	startedAt time.Time
}

type sessionStartedMsg struct {
	gen  int
	game model.Game
	id   string
	ok   bool
}

type stateLoadedMsg struct {
	gen   int
	state telemetry.GameState
	ok    bool
}

type scoreSubmittedMsg struct {
	result telemetry.ScoreResult
	ok     bool
}

type zenSavedMsg struct {
	id string
	ok bool
}

// Shell mounts exactly one activity at a time and owns the telemetry
// session of the mounted mini-game.
type Shell struct {
	env     *env
	client  *telemetry.Client
	userID  string
	sound   Sound
	keys    keyMap
	help    help.Model
	acts    []activity
	current int

	// gen increments on every mount; session results of older mounts are
	// closed on arrival. At most one start request is in flight; a game
	// mounted meanwhile waits in queued until that request resolves.
	gen     int
	pending bool
	queued  model.Game
	session *sessionHandle

	remote    *telemetry.GameState
	localBest int
	status    string

	width  int
	height int
}

// NewShell builds the shell with the first activity selected.
func NewShell(opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sound := opts.Sound
	if sound == nil {
		sound = silentSound{}
	}
	prefs := opts.Config.Prefs
	if prefs.Difficulty == "" {
		prefs.Difficulty = model.Normal
	}
	if prefs.Theme == "" {
		prefs.Theme = model.Themes[0]
	}
	sound.SetEnabled(prefs.SoundEnabled)

	e := &env{
		prefs:  prefs,
		store:  opts.Store,
		sound:  sound,
		logger: logger,
		rng:    rng,
		now:    now,
	}
	s := &Shell{
		env:    e,
		client: opts.Telemetry,
		userID: opts.Config.UserID,
		sound:  sound,
		keys:   newKeyMap(),
		help:   help.New(),
	}
	s.acts = []activity{
		newBreathingView(e),
		newMeditationView(e, opts.Narrator, opts.Config.Narration),
		newBubbleView(e),
		newShapesView(e),
		newZenView(e),
		newLeavesView(e),
	}
	if opts.Store != nil {
		best, err := opts.Store.BestScore(context.Background(), model.GameBubble)
		if err != nil {
			logger.Warn("failed to load best score", zap.Error(err))
		}
		s.localBest = best
	}
	return s
}

// Init implements tea.Model.
func (s *Shell) Init() tea.Cmd {
	return s.mount("")
}

// Close unmounts the current activity and stops any open session.
func (s *Shell) Close() {
	s.acts[s.current].Unmount()
	if id := s.releaseSession(); id != "" {
		s.client.StopSession(context.Background(), id)
	}
}

// Preferences returns the shared preference record.
func (s *Shell) Preferences() model.Preferences {
	return s.env.prefs
}

// Update implements tea.Model.
func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width
		s.acts[s.current].Resize(s.bodySize())
		return s, nil
	case tea.KeyMsg:
		return s, s.handleKey(msg)
	case tea.MouseMsg:
		msg.Y -= headerHeight
		return s, s.acts[s.current].Update(msg)
	case sessionStartedMsg:
		return s, s.sessionStarted(msg)
	case stateLoadedMsg:
		if msg.ok && msg.gen == s.gen {
			state := msg.state
			s.remote = &state
		}
		return s, nil
	case gameEventMsg:
		return s, s.logEventCmd(msg)
	case roundStartMsg:
		if s.session == nil && !s.pending {
			s.pending = true
			return s, s.openSessionCmd("", model.GameBubble)
		}
		return s, nil
	case roundOverMsg:
		return s, s.roundOver(msg.Score)
	case scoreSubmittedMsg:
		if msg.ok && msg.result.IsHighScore {
			s.status = fmt.Sprintf("New high score: %d", msg.result.HighScore)
		}
		return s, nil
	case zenSaveMsg:
		return s, s.saveZenCmd(msg)
	case zenSavedMsg:
		if msg.ok {
			s.status = "Garden saved"
		}
		return s, nil
	default:
		return s, s.acts[s.current].Update(msg)
	}
}

func (s *Shell) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Quit):
		return s.quit()
	case key.Matches(msg, s.keys.Next):
		return s.switchTo((s.current + 1) % len(s.acts))
	case key.Matches(msg, s.keys.Prev):
		return s.switchTo((s.current + len(s.acts) - 1) % len(s.acts))
	case key.Matches(msg, s.keys.Jump):
		return s.switchTo(int(msg.String()[0] - '1'))
	case key.Matches(msg, s.keys.Difficulty):
		p := s.env.prefs
		p.Difficulty = p.Difficulty.Next()
		return s.setPreferences(p)
	case key.Matches(msg, s.keys.Theme):
		p := s.env.prefs
		p.Theme = model.NextTheme(p.Theme)
		return s.setPreferences(p)
	case key.Matches(msg, s.keys.Sound):
		p := s.env.prefs
		p.SoundEnabled = !p.SoundEnabled
		return s.setPreferences(p)
	case key.Matches(msg, s.keys.Help):
		s.help.ShowAll = !s.help.ShowAll
		s.acts[s.current].Resize(s.bodySize())
		return nil
	default:
		return s.acts[s.current].Update(msg)
	}
}

func (s *Shell) quit() tea.Cmd {
	s.acts[s.current].Unmount()
	id := s.releaseSession()
	client := s.client
	return func() tea.Msg {
		if id != "" {
			client.StopSession(context.Background(), id)
		}
		return tea.QuitMsg{}
	}
}

// switchTo unmounts the current activity and mounts idx. The previous
// session is stopped before the next one is started.
func (s *Shell) switchTo(idx int) tea.Cmd {
	if idx < 0 || idx >= len(s.acts) || idx == s.current {
		return nil
	}
	s.acts[s.current].Unmount()
	prevID := s.releaseSession()
	s.current = idx
	return s.mount(prevID)
}

// mount activates the current activity. prevID, when set, is the session
// of the previous mount; it is stopped before a new one is started.
func (s *Shell) mount(prevID string) tea.Cmd {
	s.gen++
	s.remote = nil
	s.status = ""
	s.queued = ""
	act := s.acts[s.current]
	act.Resize(s.bodySize())
	game := act.Game()
	if game == "" {
		if prevID != "" {
			return tea.Batch(act.Mount(), s.stopSessionCmd(prevID))
		}
		return act.Mount()
	}
	if s.pending {
		s.queued = game
		cmds := []tea.Cmd{act.Mount(), s.loadStateCmd(game)}
		if prevID != "" {
			cmds = append(cmds, s.stopSessionCmd(prevID))
		}
		return tea.Batch(cmds...)
	}
	s.pending = true
	return tea.Batch(act.Mount(), s.openSessionCmd(prevID, game), s.loadStateCmd(game))
}

func (s *Shell) releaseSession() string {
	if s.session == nil {
		return ""
	}
	id := s.session.id
	s.session = nil
	return id
}

func (s *Shell) sessionStarted(msg sessionStartedMsg) tea.Cmd {
	s.pending = false
	if msg.gen != s.gen || s.session != nil {
		staleID := ""
		if msg.ok {
			staleID = msg.id
		}
		if s.queued != "" {
			game := s.queued
			s.queued = ""
			s.pending = true
			return s.openSessionCmd(staleID, game)
		}
		if staleID != "" {
			return s.stopSessionCmd(staleID)
		}
		return nil
	}
	if !msg.ok {
		return nil
	}
	s.session = &sessionHandle{id: msg.id, game: msg.game, startedAt: s.env.now()}
	return nil
}

func (s *Shell) roundOver(score int) tea.Cmd {
	id := s.releaseSession()
	best := s.localBest
	if s.env.store != nil {
		isNew, err := s.env.store.RecordBestScore(context.Background(), model.GameBubble, score)
		if err != nil {
			s.env.logger.Warn("failed to save best score", zap.Error(err))
		} else if isNew {
			s.localBest = score
		}
	} else if score > s.localBest {
		s.localBest = score
	}
	s.status = fmt.Sprintf("Round over: %d", score)
	if s.localBest > best {
		s.status += " (new best)"
	}
	cmds := []tea.Cmd{s.submitScoreCmd(score)}
	if id != "" {
		cmds = append(cmds, s.stopSessionCmd(id))
	}
	return tea.Batch(cmds...)
}

func (s *Shell) setPreferences(p model.Preferences) tea.Cmd {
	prev := s.env.prefs
	if prev == p {
		return nil
	}
	s.env.prefs = p
	if prev.SoundEnabled != p.SoundEnabled {
		s.sound.SetEnabled(p.SoundEnabled)
	}
	act := s.acts[s.current]
	if game := act.Game(); game != "" {
		s.client.SetPreferences(s.userID, game, p)
	}
	return act.PreferencesChanged(prev)
}

func (s *Shell) openSessionCmd(prevID string, game model.Game) tea.Cmd {
	client, user, gen := s.client, s.userID, s.gen
	return func() tea.Msg {
		ctx := context.Background()
		if prevID != "" {
			client.StopSession(ctx, prevID)
		}
		id, ok := client.StartSession(ctx, user, game)
		return sessionStartedMsg{gen: gen, game: game, id: id, ok: ok}
	}
}

func (s *Shell) stopSessionCmd(id string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		client.StopSession(context.Background(), id)
		return nil
	}
}

func (s *Shell) loadStateCmd(game model.Game) tea.Cmd {
	client, user, gen := s.client, s.userID, s.gen
	return func() tea.Msg {
		state, ok := client.GetState(context.Background(), user, game)
		return stateLoadedMsg{gen: gen, state: state, ok: ok}
	}
}

func (s *Shell) logEventCmd(msg gameEventMsg) tea.Cmd {
	if s.session == nil {
		return nil
	}
	client := s.client
	ev := telemetry.Event{
		SessionID: s.session.id,
		Game:      s.session.game,
		Type:      msg.Type,
		Payload:   msg.Payload,
	}
	return func() tea.Msg {
		client.LogEvent(context.Background(), ev)
		return nil
	}
}

func (s *Shell) submitScoreCmd(score int) tea.Cmd {
	client, user := s.client, s.userID
	return func() tea.Msg {
		res, ok := client.SubmitBubbleScore(context.Background(), user, score)
		return scoreSubmittedMsg{result: res, ok: ok}
	}
}

func (s *Shell) saveZenCmd(msg zenSaveMsg) tea.Cmd {
	client := s.client
	save := telemetry.ZenSave{
		UserID:    s.userID,
		ImageData: msg.ImageData,
		Theme:     s.env.prefs.Theme,
		RakeWidth: msg.RakeWidth,
	}
	return func() tea.Msg {
		id, ok := client.SaveZen(context.Background(), save)
		return zenSavedMsg{id: id, ok: ok}
	}
}

func (s *Shell) best() int {
	best := s.localBest
	if s.remote != nil && s.remote.HighScore != nil && *s.remote.HighScore > best {
		best = *s.remote.HighScore
	}
	return best
}

func (s *Shell) bodySize() (int, int) {
	h := s.height - headerHeight - lipgloss.Height(s.footer())
	if h < 0 {
		h = 0
	}
	return s.width, h
}

func (s *Shell) footer() string {
	bindings := s.acts[s.current].Bindings()
	if s.help.ShowAll {
		return s.help.FullHelpView([][]key.Binding{bindings, s.keys.full()})
	}
	return s.help.ShortHelpView(append(bindings, s.keys.short()...))
}

// View implements tea.Model.
func (s *Shell) View() string {
	pal := s.env.palette()
	tabs := make([]string, 0, len(s.acts))
	for i, act := range s.acts {
		label := fmt.Sprintf("%d %s", i+1, act.Title())
		if i == s.current {
			tabs = append(tabs, pal.accentStyle().Underline(true).Render(label))
		} else {
			tabs = append(tabs, pal.mutedStyle().Render(label))
		}
	}
	header := strings.Join(tabs, "  ") + "\n" + pal.mutedStyle().Render(s.statusLine())
	if s.width == 0 || s.height == 0 {
		return header + "\n" + s.acts[s.current].View()
	}
	_, bodyH := s.bodySize()
	body := fitHeight(s.acts[s.current].View(), bodyH)
	return header + "\n" + body + "\n" + s.footer()
}

func (s *Shell) statusLine() string {
	p := s.env.prefs
	sound := "sound off"
	if p.SoundEnabled {
		sound = "sound on"
	}
	segments := []string{string(p.Difficulty), p.Theme, sound}
	game := s.acts[s.current].Game()
	if game == model.GameBubble {
		segments = append(segments, fmt.Sprintf("best %d", s.best()))
	}
	if game != "" && s.remote != nil && s.remote.Sessions.Count > 0 {
		segments = append(segments, fmt.Sprintf("%d sessions · %d min", s.remote.Sessions.Count, s.remote.Sessions.Seconds/60))
	}
	if s.status != "" {
		segments = append(segments, s.status)
	}
	return strings.Join(segments, " · ")
}

// fitHeight pads or cuts a block to exactly h lines.
func fitHeight(block string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(block, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
