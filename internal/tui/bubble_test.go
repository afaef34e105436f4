package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/games/bubble"
	"github.com/verte-zerg/tuizen/internal/model"
)

func TestBubblePopScoresAndRelocates(t *testing.T) {
	e, sound := newTestEnv(t, nil)
	v := newBubbleView(e)
	v.Resize(60, 21)

	require.NotNil(t, v.Update(spaceKey))
	require.True(t, v.game.State().Playing)
	require.True(t, v.countdown.Running())
	require.True(t, v.mover.Running())

	pos := v.game.State().Position
	moverTick := v.mover.Pending()
	cmd := v.Update(press(pos.Left+1, pos.Top+2))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, v.game.State().Score)
	assert.Equal(t, 1, sound.played(games.PopChime.Freq))

	// The relocation timer restarted, so its old tick is dropped.
	before := v.game.State().Position
	assert.Nil(t, v.Update(moverTick))
	assert.Equal(t, before, v.game.State().Position)

	assert.Nil(t, v.Update(press(0, 0)))
}

func TestBubbleRoundEndsExactlyOnce(t *testing.T) {
	st := openStore(t)
	e, _ := newTestEnv(t, st)
	v := newBubbleView(e)
	v.Resize(60, 21)
	v.Update(spaceKey)
	pos := v.game.State().Position
	v.Update(press(pos.Left, pos.Top+1))

	var overs []roundOverMsg
	for i := 0; i < v.game.Params().Duration+3; i++ {
		cmd := v.Update(v.countdown.Pending())
		if cmd == nil || v.game.State().Playing {
			continue
		}
		for _, msg := range drain(cmd) {
			if over, ok := msg.(roundOverMsg); ok {
				overs = append(overs, over)
			}
		}
	}
	require.Len(t, overs, 1)
	assert.Equal(t, 1, overs[0].Score)
	assert.False(t, v.countdown.Running())
	assert.False(t, v.mover.Running())

	recs := activities(t, st)
	require.Len(t, recs, 1)
	assert.Equal(t, "bubble", recs[0].Activity)
	assert.Equal(t, 1, recs[0].Detail)
}

func TestBubbleRelocationStaysInside(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBubbleView(e)
	v.Resize(20, 9)
	v.Update(spaceKey)

	size := v.game.Size()
	for i := 0; i < 200; i++ {
		v.Update(v.mover.Pending())
		pos := v.game.State().Position
		assert.GreaterOrEqual(t, pos.Top, 0)
		assert.GreaterOrEqual(t, pos.Left, 0)
		assert.LessOrEqual(t, pos.Top+size.Height, v.surface.Height)
		assert.LessOrEqual(t, pos.Left+size.Width, v.surface.Width)
	}
}

func TestBubbleUnmeasuredSurfaceKeepsPosition(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBubbleView(e)
	v.Update(spaceKey)
	assert.Equal(t, bubble.Position{}, v.game.State().Position)
	v.Update(v.mover.Pending())
	assert.Equal(t, bubble.Position{}, v.game.State().Position)
}

func TestBubbleDifficultyChangeAbortsRound(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newBubbleView(e)
	v.Resize(60, 21)
	v.Update(spaceKey)

	prev := e.prefs
	e.prefs.Difficulty = model.Hard
	v.PreferencesChanged(prev)
	assert.False(t, v.game.State().Playing)
	assert.False(t, v.countdown.Running())
	assert.Equal(t, bubble.ParamsFor(model.Hard), v.game.Params())
}
