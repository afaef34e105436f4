package meditation

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNoSpeechEngine is returned when no text-to-speech command is available.
var ErrNoSpeechEngine = errors.New("no speech engine available")

// DefaultSpeechCommand returns the platform TTS command.
func DefaultSpeechCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak-ng -s 140"
}

// SpeechQueue narrates through an external text-to-speech command. At most
// one utterance runs at a time.
type SpeechQueue struct {
	argv   []string
	logger *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    int
}

// NewSpeechQueue parses command (program followed by flags); the text is
// appended as the last argument.
func NewSpeechQueue(command string, logger *zap.Logger) *SpeechQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpeechQueue{argv: strings.Fields(command), logger: logger}
}

// Speak starts an utterance, cancelling the current one.
func (q *SpeechQueue) Speak(text string) error {
	if len(q.argv) == 0 {
		return ErrNoSpeechEngine
	}
	path, err := exec.LookPath(q.argv[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoSpeechEngine, err)
	}

	q.mu.Lock()
	q.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.gen++
	gen := q.gen
	q.mu.Unlock()

	args := append(append([]string(nil), q.argv[1:]...), text)
	cmd := exec.CommandContext(ctx, path, args...)
	if err := cmd.Start(); err != nil {
		q.finish(gen)
		return fmt.Errorf("failed to start speech: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			q.logger.Debug("speech exited", zap.Error(err))
		}
		q.finish(gen)
	}()
	return nil
}

// Cancel stops the utterance in flight, if any.
func (q *SpeechQueue) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopLocked()
}

// busy reports whether an utterance is playing.
func (q *SpeechQueue) busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cancel != nil
}

func (q *SpeechQueue) stopLocked() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *SpeechQueue) finish(gen int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.gen == gen && q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}
