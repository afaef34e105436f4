package shapes

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuizen/internal/model"
)

func checkInvariant(t *testing.T, b *Board) {
	t.Helper()
	assert.Equal(t, len(b.Targets()), b.Placed()+len(b.Pieces()))
}

func TestNewBoardCyclesPalette(t *testing.T) {
	b := New(SlotsFor(model.Hard), rand.New(rand.NewSource(1)))
	targets := b.Targets()
	require.Len(t, targets, 9)
	for i, tg := range targets {
		assert.Equal(t, Palette[i%3], tg.Kind)
		assert.False(t, tg.Filled)
	}

	counts := map[Kind]int{}
	for _, p := range b.Pieces() {
		counts[p.Kind]++
	}
	assert.Equal(t, map[Kind]int{Circle: 3, Square: 3, Triangle: 3}, counts)
	checkInvariant(t, b)
}

func TestShuffleIsAPermutation(t *testing.T) {
	b := New(30, rand.New(rand.NewSource(7)))
	seen := map[int]bool{}
	moved := false
	for i, p := range b.Pieces() {
		seen[p.ID] = true
		if p.ID != i {
			moved = true
		}
	}
	assert.Len(t, seen, 30)
	assert.True(t, moved, "30 pieces should not stay in order")
}

func TestMismatchedDropChangesNothing(t *testing.T) {
	b := New(3, rand.New(rand.NewSource(2)))
	var circle Piece
	for _, p := range b.Pieces() {
		if p.Kind == Circle {
			circle = p
		}
	}
	beforeT, beforeP := b.Targets(), b.Pieces()

	assert.False(t, b.Drop(circle.ID, 1)) // square slot
	assert.False(t, b.Drop(99, 0))
	assert.False(t, b.Drop(circle.ID, 99))
	assert.Equal(t, beforeT, b.Targets())
	assert.Equal(t, beforeP, b.Pieces())
	checkInvariant(t, b)
}

func TestMatchingDropsCompleteBoard(t *testing.T) {
	b := New(SlotsFor(model.Normal), rand.New(rand.NewSource(3)))
	for _, tg := range b.Targets() {
		var piece Piece
		for _, p := range b.Pieces() {
			if p.Kind == tg.Kind {
				piece = p
				break
			}
		}
		require.True(t, b.Drop(piece.ID, tg.ID))
		checkInvariant(t, b)
		assert.False(t, b.Drop(piece.ID, tg.ID), "piece is gone and slot is full")
	}
	assert.True(t, b.Complete())
	assert.Empty(t, b.Pieces())
}

func TestFilledTargetRejectsSecondPiece(t *testing.T) {
	b := New(6, rand.New(rand.NewSource(4)))
	var circles []Piece
	for _, p := range b.Pieces() {
		if p.Kind == Circle {
			circles = append(circles, p)
		}
	}
	require.Len(t, circles, 2)
	require.True(t, b.Drop(circles[0].ID, 0))
	assert.False(t, b.Drop(circles[1].ID, 0))
	assert.Equal(t, 1, b.Placed())
	checkInvariant(t, b)
}
