package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/games/zen"
)

func groovedPixels(s *zen.Surface) int {
	n := 0
	img := s.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != s.Base() {
				n++
			}
		}
	}
	return n
}

func TestZenSurfaceUsesHalfBlocks(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(30, 11)
	require.NotNil(t, v.surface)
	b := v.surface.Image().Bounds()
	assert.Equal(t, 30, b.Dx())
	assert.Equal(t, 20, b.Dy())

	lines := strings.Split(v.View(), "\n")
	assert.Len(t, lines, 11)
}

func TestZenStrokeStampsAndChimes(t *testing.T) {
	e, sound := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(40, 11)
	v.Mount()

	v.Update(press(10, 4))
	require.True(t, v.surface.Stroking())
	v.Update(motion(12, 4))
	v.Update(motion(14, 5))
	cmd := v.Update(release(14, 5))
	require.NotNil(t, cmd)

	assert.False(t, v.surface.Stroking())
	assert.Equal(t, 3, v.surface.Stamps())
	assert.Equal(t, 3, sound.played(games.RakeChime.Freq))
	assert.Greater(t, groovedPixels(v.surface), 0)
	events := eventsOf(drain(cmd))
	require.Len(t, events, 1)
	assert.Equal(t, "stroke", events[0].Type)

	v.Update(motion(20, 5))
	assert.Equal(t, 3, v.surface.Stamps())
}

func TestZenLeavingSurfaceEndsStroke(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(40, 11)
	v.Update(press(10, 4))
	require.NotNil(t, v.Update(motion(10, 0)))
	assert.False(t, v.surface.Stroking())
}

func TestZenSmoothAndRakeWidth(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(40, 11)
	v.Update(press(10, 4))
	v.Update(release(10, 4))

	v.Update(runeKey('+'))
	assert.Equal(t, zen.DefaultRakeWidth+2, v.surface.RakeWidth())
	for i := 0; i < 20; i++ {
		v.Update(runeKey('-'))
	}
	assert.Equal(t, zen.MinRakeWidth, v.surface.RakeWidth())

	v.Update(runeKey('c'))
	assert.Equal(t, 0, groovedPixels(v.surface))
}

func TestZenSaveEmitsImage(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(16, 5)
	msgs := drain(v.Update(runeKey('s')))
	require.Len(t, msgs, 1)
	save, ok := msgs[0].(zenSaveMsg)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(save.ImageData, "data:image/png;base64,"))
	assert.Equal(t, zen.DefaultRakeWidth, save.RakeWidth)
}

func TestZenResizeKeepsGarden(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(40, 11)
	v.Update(press(10, 4))
	v.Update(release(10, 4))
	raked := groovedPixels(v.surface)

	v.Resize(60, 21)
	assert.Equal(t, 60, v.surface.Image().Bounds().Dx())
	assert.Equal(t, raked, groovedPixels(v.surface))
}

func TestZenUnmountRecordsStrokes(t *testing.T) {
	st := openStore(t)
	e, _ := newTestEnv(t, st)
	v := newZenView(e)
	v.Resize(40, 11)
	v.Mount()
	v.Update(press(10, 4))
	v.Update(release(10, 4))
	v.Unmount()
	v.Unmount()

	recs := activities(t, st)
	require.Len(t, recs, 1)
	assert.Equal(t, "zen", recs[0].Activity)
	assert.Equal(t, 1, recs[0].Detail)
}

func TestRenderPixelRowMergesRuns(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(12, 3)
	row := renderPixelRow(v.surface.Image(), 0)
	assert.Equal(t, 12, strings.Count(row, "▀"))
}

func TestZenThemeRebasesUntouchedSand(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newZenView(e)
	v.Resize(30, 11)
	assert.Equal(t, palettes["sand"].sand, v.surface.Base())

	prev := e.prefs
	e.prefs.Theme = "ocean"
	v.PreferencesChanged(prev)
	assert.Equal(t, palettes["ocean"].sand, v.surface.Base())
	assert.Equal(t, 0, groovedPixels(v.surface))
}
