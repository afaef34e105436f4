package tui

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuizen/internal/games/leaves"
	"github.com/verte-zerg/tuizen/internal/model"
)

func TestLeavesMountAnimates(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newLeavesView(e)
	v.Resize(50, 21)
	require.NotNil(t, v.Mount())
	require.True(t, v.timer.Running())
	assert.Equal(t, leaves.TickInterval, v.timer.Period())

	before := v.field.Leaves()
	require.NotNil(t, v.Update(v.timer.Pending()))
	after := v.field.Leaves()
	for i := range before {
		assert.NotEqual(t, before[i], after[i])
	}
	assert.Equal(t, leaves.TickInterval, v.elapsed)

	v.Unmount()
	assert.Nil(t, v.Update(v.timer.Pending()))
}

func TestLeavesDragPinsAndLogs(t *testing.T) {
	st := openStore(t)
	e, _ := newTestEnv(t, st)
	v := newLeavesView(e)
	v.field = leaves.NewField(1, rand.New(rand.NewSource(3)))
	v.Resize(50, 21)
	v.Mount()

	leaf := v.field.Leaves()[0]
	x := int(leaf.Left / 100 * 50)
	y := int(leaf.Top/100*20) + 1
	v.Update(press(x, y))
	require.Equal(t, 0, v.field.Dragged())

	cmd := v.Update(motion(10, 5))
	require.NotNil(t, cmd)
	events := eventsOf(drain(cmd))
	require.Len(t, events, 1)
	assert.Equal(t, "leaf_drag", events[0].Type)
	assert.Equal(t, 0, events[0].Payload["id"])

	pinned := v.field.Leaves()[0]
	for i := 0; i < 5; i++ {
		v.Update(v.timer.Pending())
	}
	assert.Equal(t, pinned, v.field.Leaves()[0])

	v.Update(release(10, 5))
	assert.Equal(t, -1, v.field.Dragged())
	v.Update(v.timer.Pending())
	assert.NotEqual(t, pinned, v.field.Leaves()[0])

	v.Unmount()
	recs := activities(t, st)
	require.Len(t, recs, 1)
	assert.Equal(t, "leaves", recs[0].Activity)
	assert.Equal(t, 1, recs[0].Detail)
}

func TestLeavesPressOnEmptyFieldGrabsNothing(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newLeavesView(e)
	v.field = leaves.NewField(0, nil)
	v.Resize(50, 21)
	v.Update(press(5, 5))
	assert.Equal(t, -1, v.field.Dragged())
	assert.Nil(t, v.Update(motion(6, 6)))
}

func TestLeavesDifficultyRebuildsField(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newLeavesView(e)
	prev := e.prefs
	e.prefs.Difficulty = model.Hard
	v.PreferencesChanged(prev)
	assert.Len(t, v.field.Leaves(), leaves.CountFor(model.Hard))
}

func TestLeavesViewDrawsEveryLeaf(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	v := newLeavesView(e)
	v.field = leaves.NewField(3, rand.New(rand.NewSource(11)))
	for _, l := range v.field.Leaves() {
		v.field.Grab(l.ID)
		v.field.DragTo(l.ID, float64(l.ID)*30, float64(l.ID)*30)
	}
	v.field.Release()
	v.Resize(40, 11)
	out := v.View()
	n := 0
	for _, g := range leafGlyphs {
		n += strings.Count(out, g)
	}
	assert.Equal(t, 3, n)
}
