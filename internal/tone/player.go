package tone

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// Player plays chimes. Implementations never report failure.
type Player interface {
	Play(freq float64, d time.Duration, w Waveform)
}

// Backend consumes rendered PCM.
type Backend interface {
	Play(pcm []byte) error
}

// OpenFunc constructs the shared backend.
type OpenFunc func() (Backend, error)

// Synth is the shared chime player. The audio context is opened in the
// background on the first Play call and kept for the life of the process.
// Chimes requested while the device is still opening are dropped.
type Synth struct {
	open    OpenFunc
	logger  *zap.Logger
	enabled atomic.Bool

	once sync.Once
	// ready is closed once backend is settled; backend stays nil when the
	// device could not be opened.
	ready   chan struct{}
	backend Backend
}

// NewSynth returns an enabled synth. open defaults to OpenOto.
func NewSynth(open OpenFunc, logger *zap.Logger) *Synth {
	if open == nil {
		open = OpenOto
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synth{open: open, logger: logger, ready: make(chan struct{})}
	s.enabled.Store(true)
	return s
}

// SetEnabled mirrors the shared sound preference.
func (s *Synth) SetEnabled(on bool) {
	s.enabled.Store(on)
}

// Enabled reports the sound preference.
func (s *Synth) Enabled() bool {
	return s.enabled.Load()
}

// Play renders and queues one tone without blocking the caller. Errors
// disable nothing and are only logged.
func (s *Synth) Play(freq float64, d time.Duration, w Waveform) {
	if !s.enabled.Load() {
		return
	}
	first := false
	s.once.Do(func() {
		first = true
		go func() {
			defer close(s.ready)
			s.openBackend()
			s.play(freq, d, w)
		}()
	})
	if first {
		return
	}
	select {
	case <-s.ready:
		s.play(freq, d, w)
	default:
		s.logger.Debug("audio still opening, chime dropped")
	}
}

func (s *Synth) openBackend() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("audio open panicked", zap.Any("panic", r))
		}
	}()
	b, err := s.open()
	if err != nil {
		s.logger.Debug("audio unavailable", zap.Error(err))
		return
	}
	s.backend = b
}

func (s *Synth) play(freq float64, d time.Duration, w Waveform) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("tone playback panicked", zap.Any("panic", r))
		}
	}()
	if s.backend == nil {
		return
	}
	pcm := Render(freq, d, w)
	if len(pcm) == 0 {
		return
	}
	if err := s.backend.Play(pcm); err != nil {
		s.logger.Debug("tone playback failed", zap.Error(err))
	}
}

// Silent is a Player that does nothing.
type Silent struct{}

// Play implements Player.
func (Silent) Play(float64, time.Duration, Waveform) {}

type otoBackend struct {
	ctx *oto.Context
}

// OpenOto opens the system audio device for mono float32 output.
func OpenOto() (Backend, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio context: %w", err)
	}
	<-ready
	return &otoBackend{ctx: ctx}, nil
}

func (b *otoBackend) Play(pcm []byte) error {
	p := b.ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	if err := p.Err(); err != nil {
		_ = p.Close()
		return err
	}
	go func() {
		for p.IsPlaying() {
			time.Sleep(20 * time.Millisecond)
		}
		if err := p.Close(); err != nil {
			// Best-effort release of a finished player.
			_ = err
		}
	}()
	return nil
}
