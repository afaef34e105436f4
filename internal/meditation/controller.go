package meditation

import (
	"go.uber.org/zap"
)

// ClosingLine is spoken once when a narrated session ends.
const ClosingLine = "Your session is complete. Take a moment before you return."

// Narrator speaks prompts. Speak replaces any utterance still playing.
type Narrator interface {
	Speak(text string) error
	Cancel()
}

// State is a snapshot of the controller.
type State struct {
	Script           Script
	DurationSeconds  int
	SecondsRemaining int
	Running          bool
	LastSpoken       int
}

// Elapsed returns seconds since the session began.
func (s State) Elapsed() int {
	return s.DurationSeconds - s.SecondsRemaining
}

// PromptIndex returns the active prompt for this state.
func (s State) PromptIndex() int {
	return PromptIndex(s.Elapsed(), s.DurationSeconds, len(s.Script.Prompts))
}

// Prompt returns the active prompt text.
func (s State) Prompt() string {
	idx := s.PromptIndex()
	if idx < 0 {
		return ""
	}
	return s.Script.Prompts[idx]
}

// Controller runs one fixed-length guided session.
type Controller struct {
	state     State
	narration bool
	narrator  Narrator
	logger    *zap.Logger
}

// NewController builds an idle controller. narrator may be nil.
func NewController(script Script, durationSeconds int, narrator Narrator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if durationSeconds <= 0 {
		durationSeconds = DefaultDuration
	}
	c := &Controller{narrator: narrator, logger: logger}
	c.state.Script = script
	c.state.DurationSeconds = durationSeconds
	c.reset()
	return c
}

// State returns a snapshot.
func (c *Controller) State() State {
	return c.state
}

// Narration reports whether prompts are spoken.
func (c *Controller) Narration() bool {
	return c.narration
}

// Start resumes the countdown, reseeding a finished session first.
func (c *Controller) Start() {
	if c.state.Running {
		return
	}
	if c.state.SecondsRemaining == 0 {
		c.reset()
	}
	c.state.Running = true
	c.announce()
}

// Pause halts the countdown and silences narration.
func (c *Controller) Pause() {
	c.state.Running = false
	c.cancelSpeech()
}

// Tick advances the session by one second. It reports whether the session
// finished on this tick.
func (c *Controller) Tick() bool {
	if !c.state.Running {
		return false
	}
	if c.state.SecondsRemaining > 0 {
		c.state.SecondsRemaining--
	}
	if c.state.SecondsRemaining == 0 {
		c.state.Running = false
		if c.narration {
			c.speak(ClosingLine)
		}
		return true
	}
	c.announce()
	return false
}

// SetScript switches script. It is refused while the session runs.
func (c *Controller) SetScript(s Script) bool {
	if c.state.Running {
		return false
	}
	c.state.Script = s
	c.reset()
	return true
}

// SetDuration switches session length. It is refused while the session runs.
func (c *Controller) SetDuration(seconds int) bool {
	if c.state.Running || seconds <= 0 {
		return false
	}
	c.state.DurationSeconds = seconds
	c.reset()
	return true
}

// SetNarration turns spoken prompts on or off. Turning it off silences any
// utterance in flight; turning it on speaks the current prompt if running.
func (c *Controller) SetNarration(on bool) {
	c.narration = on
	if !on {
		c.cancelSpeech()
		return
	}
	c.state.LastSpoken = -1
	if c.state.Running {
		c.announce()
	}
}

// Close stops the session and releases the narration channel.
func (c *Controller) Close() {
	c.state.Running = false
	c.cancelSpeech()
}

func (c *Controller) reset() {
	c.state.SecondsRemaining = c.state.DurationSeconds
	c.state.LastSpoken = -1
	c.cancelSpeech()
}

func (c *Controller) announce() {
	idx := c.state.PromptIndex()
	if idx < 0 || idx == c.state.LastSpoken {
		return
	}
	c.state.LastSpoken = idx
	if c.narration {
		c.speak(c.state.Script.Prompts[idx])
	}
}

func (c *Controller) speak(text string) {
	if c.narrator == nil {
		return
	}
	c.narrator.Cancel()
	if err := c.narrator.Speak(text); err != nil {
		c.logger.Debug("narration unavailable", zap.Error(err))
	}
}

func (c *Controller) cancelSpeech() {
	if c.narrator != nil {
		c.narrator.Cancel()
	}
}
