// Package zen implements the zen-garden raking surface.
package zen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// Rake width limits, in pixels.
const (
	MinRakeWidth     = 2
	MaxRakeWidth     = 24
	DefaultRakeWidth = 8
	stampHeight      = 2
)

// Surface is a persistent sand raster. Raked grooves are drawn in a darker
// shade of the base color.
type Surface struct {
	img       *image.RGBA
	base      color.RGBA
	groove    color.RGBA
	rakeWidth int
	stroking  bool
	stamps    int
}

// NewSurface returns a flat surface of w by h pixels.
func NewSurface(w, h int, base color.RGBA) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s := &Surface{
		img:       image.NewRGBA(image.Rect(0, 0, w, h)),
		rakeWidth: DefaultRakeWidth,
	}
	s.SetBase(base)
	s.Smooth()
	return s
}

// Image exposes the raster for rendering.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Base returns the flat sand color.
func (s *Surface) Base() color.RGBA {
	return s.base
}

// SetBase changes the sand color used by the next Smooth and stamps.
func (s *Surface) SetBase(c color.RGBA) {
	s.base = c
	s.groove = shade(c, 0.78)
}

// RakeWidth returns the current stamp width.
func (s *Surface) RakeWidth() int {
	return s.rakeWidth
}

// SetRakeWidth clamps and applies a new stamp width.
func (s *Surface) SetRakeWidth(w int) int {
	if w < MinRakeWidth {
		w = MinRakeWidth
	}
	if w > MaxRakeWidth {
		w = MaxRakeWidth
	}
	s.rakeWidth = w
	return w
}

// Stamps counts stamps since the surface was last smoothed.
func (s *Surface) Stamps() int {
	return s.stamps
}

// Stroking reports whether a stroke is in progress.
func (s *Surface) Stroking() bool {
	return s.stroking
}

// BeginStroke starts a stroke at (x, y) and stamps it.
func (s *Surface) BeginStroke(x, y int) bool {
	s.stroking = true
	return s.stamp(x, y)
}

// Move stamps at (x, y) while a stroke is active. It reports whether
// anything was drawn.
func (s *Surface) Move(x, y int) bool {
	if !s.stroking {
		return false
	}
	return s.stamp(x, y)
}

// EndStroke finishes the current stroke.
func (s *Surface) EndStroke() {
	s.stroking = false
}

// Smooth resets the whole surface to the base color.
func (s *Surface) Smooth() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: s.base}, image.Point{}, draw.Src)
	s.stamps = 0
}

// stamp fills a flattened ellipse centered on (x, y).
func (s *Surface) stamp(x, y int) bool {
	bounds := s.img.Bounds()
	if !image.Pt(x, y).In(bounds) {
		return false
	}
	rx := float64(s.rakeWidth) / 2
	ry := float64(stampHeight) / 2
	drawn := false
	for py := y - stampHeight; py <= y+stampHeight; py++ {
		for px := x - s.rakeWidth; px <= x+s.rakeWidth; px++ {
			if !image.Pt(px, py).In(bounds) {
				continue
			}
			dx := float64(px-x) / (rx + 0.5)
			dy := float64(py-y) / (ry + 0.5)
			if dx*dx+dy*dy > 1 {
				continue
			}
			s.img.SetRGBA(px, py, s.groove)
			drawn = true
		}
	}
	if drawn {
		s.stamps++
	}
	return drawn
}

// EncodePNG serializes the surface.
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("failed to encode garden: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the surface as a base64 PNG data URL.
func (s *Surface) DataURL() (string, error) {
	raw, err := s.EncodePNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
