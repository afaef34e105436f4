// Package tone synthesizes short feedback chimes.
package tone

import (
	"encoding/binary"
	"math"
	"time"
)

// SampleRate is the output rate in Hz.
const SampleRate = 44100

const (
	peakGain   = 0.2
	floorGain  = 0.0001
	attackTime = 10 * time.Millisecond
)

// Waveform selects the oscillator shape.
type Waveform int

// Oscillator shapes.
const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "sine"
	}
}

// oscillate returns the waveform value in [-1, 1] at the given phase in cycles.
func oscillate(w Waveform, phase float64) float64 {
	_, frac := math.Modf(phase)
	switch w {
	case Square:
		if frac < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(frac-0.5)
	case Sawtooth:
		return 2*frac - 1
	default:
		return math.Sin(2 * math.Pi * frac)
	}
}

// Envelope returns the gain at t seconds into a tone lasting total seconds:
// an exponential rise from the floor to the peak over the attack, then an
// exponential fall back to the floor at total.
func Envelope(t, total float64) float64 {
	attack := attackTime.Seconds()
	if attack > total/2 {
		attack = total / 2
	}
	switch {
	case t <= 0 || t >= total:
		return floorGain
	case t < attack:
		return floorGain * math.Pow(peakGain/floorGain, t/attack)
	default:
		return peakGain * math.Pow(floorGain/peakGain, (t-attack)/(total-attack))
	}
}

// Render produces mono float32 little-endian PCM for one tone.
func Render(freq float64, d time.Duration, w Waveform) []byte {
	total := d.Seconds()
	n := int(total * SampleRate)
	if n <= 0 || freq <= 0 {
		return nil
	}
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		v := oscillate(w, freq*t) * Envelope(t, total)
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	return buf
}
