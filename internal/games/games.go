// Package games holds what the mini-games share: play-surface geometry and
// the chime palette.
package games

import (
	"time"

	"github.com/verte-zerg/tuizen/internal/tone"
)

// Bounds is the measured size of a play surface.
type Bounds struct {
	Width  int
	Height int
}

// Empty reports whether the surface has not been measured yet.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains reports whether (x, y) lies on the surface.
func (b Bounds) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Chime is a preset feedback tone.
type Chime struct {
	Freq     float64
	Duration time.Duration
	Wave     tone.Waveform
}

// Play sends the chime to p. A nil player is silent.
func (c Chime) Play(p tone.Player) {
	if p == nil {
		return
	}
	p.Play(c.Freq, c.Duration, c.Wave)
}

// Feedback chimes.
var (
	PopChime    = Chime{Freq: 660, Duration: 120 * time.Millisecond, Wave: tone.Sine}
	PlaceChime  = Chime{Freq: 523.25, Duration: 180 * time.Millisecond, Wave: tone.Triangle}
	DoneChime   = Chime{Freq: 784, Duration: 400 * time.Millisecond, Wave: tone.Sine}
	RakeChime   = Chime{Freq: 220, Duration: 40 * time.Millisecond, Wave: tone.Triangle}
	PhaseChime  = Chime{Freq: 396, Duration: 250 * time.Millisecond, Wave: tone.Sine}
	FinishChime = Chime{Freq: 432, Duration: 600 * time.Millisecond, Wave: tone.Sine}
)
