package zen

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sand = color.RGBA{R: 232, G: 217, B: 181, A: 255}

func countGrooves(s *Surface) int {
	n := 0
	img := s.Image()
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if img.RGBAAt(x, y) != s.Base() {
				n++
			}
		}
	}
	return n
}

func TestNewSurfaceIsFlat(t *testing.T) {
	s := NewSurface(40, 20, sand)
	assert.Equal(t, 0, countGrooves(s))
	assert.Equal(t, DefaultRakeWidth, s.RakeWidth())
}

func TestMoveOnlyStampsDuringStroke(t *testing.T) {
	s := NewSurface(40, 20, sand)
	assert.False(t, s.Move(10, 10))
	assert.Equal(t, 0, countGrooves(s))

	require.True(t, s.BeginStroke(10, 10))
	assert.True(t, s.Move(12, 10))
	s.EndStroke()
	assert.False(t, s.Move(20, 10))
	assert.Equal(t, 2, s.Stamps())
	assert.Greater(t, countGrooves(s), 0)
}

func TestStampIsFlattenedEllipse(t *testing.T) {
	s := NewSurface(60, 20, sand)
	s.SetRakeWidth(12)
	s.BeginStroke(30, 10)

	img := s.Image()
	minX, maxX, minY, maxY := 1000, -1, 1000, -1
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y) != sand {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	width := maxX - minX + 1
	height := maxY - minY + 1
	assert.Equal(t, 13, width)
	assert.Equal(t, 3, height)
}

func TestStampOutsideSurfaceIsIgnored(t *testing.T) {
	s := NewSurface(10, 10, sand)
	s.BeginStroke(-5, 3)
	assert.False(t, s.Move(50, 50))
	assert.Equal(t, 0, countGrooves(s))
}

func TestSmoothRestoresBase(t *testing.T) {
	s := NewSurface(30, 10, sand)
	s.BeginStroke(5, 5)
	s.Move(15, 5)
	s.EndStroke()
	require.Greater(t, countGrooves(s), 0)

	s.Smooth()
	assert.Equal(t, 0, countGrooves(s))
	assert.Equal(t, 0, s.Stamps())
}

func TestRakeWidthClamped(t *testing.T) {
	s := NewSurface(10, 10, sand)
	assert.Equal(t, MinRakeWidth, s.SetRakeWidth(0))
	assert.Equal(t, MaxRakeWidth, s.SetRakeWidth(100))
}

func TestDataURLRoundTripsDimensions(t *testing.T) {
	s := NewSurface(32, 16, sand)
	s.BeginStroke(8, 8)

	url, err := s.DataURL()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}
