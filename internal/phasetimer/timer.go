// Package phasetimer provides the interval primitive behind every timed
// component. Ticks are delivered as Bubble Tea messages, so callbacks always
// run on the program's update loop and never overlap for the same owner.
package phasetimer

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is delivered once per period while a timer runs.
type TickMsg struct {
	ID  int
	tag int
}

// Timer is a restartable periodic ticker. The zero value is not usable; call New.
type Timer struct {
	id      int
	tag     int
	period  time.Duration
	running bool
}

// New returns a stopped timer with a process-unique id.
func New() *Timer {
	return &Timer{id: nextID()}
}

// ID identifies tick messages that belong to this timer.
func (t *Timer) ID() int {
	return t.id
}

// Running reports whether a run is in progress.
func (t *Timer) Running() bool {
	return t.running
}

// Period returns the period of the current or last run.
func (t *Timer) Period() time.Duration {
	return t.period
}

// Start begins a new run. A run already in progress is stopped first, so its
// pending tick is dropped when it arrives.
func (t *Timer) Start(period time.Duration) tea.Cmd {
	if period <= 0 {
		period = time.Second
	}
	t.Stop()
	t.period = period
	t.running = true
	return t.schedule()
}

// Stop ends the current run. Calling Stop on a stopped timer does nothing.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.tag++
}

// Handle reports whether msg is a live tick of this timer. When it is, the
// next tick is scheduled and returned.
func (t *Timer) Handle(msg tea.Msg) (bool, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != t.id {
		return false, nil
	}
	if !t.running || tick.tag != t.tag {
		return false, nil
	}
	return true, t.schedule()
}

// Pending returns the tick the current run delivers next.
func (t *Timer) Pending() TickMsg {
	return TickMsg{ID: t.id, tag: t.tag}
}

func (t *Timer) schedule() tea.Cmd {
	msg := t.Pending()
	return tea.Tick(t.period, func(time.Time) tea.Msg {
		return msg
	})
}
