// Package shapes implements the shape-sorting mini-game.
package shapes

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuizen/internal/model"
)

// Kind is a shape type.
type Kind string

// Palette shapes, in slot order.
const (
	Circle   Kind = "circle"
	Square   Kind = "square"
	Triangle Kind = "triangle"
)

// Palette is cycled to build targets.
var Palette = []Kind{Circle, Square, Triangle}

// SlotsFor returns the number of targets for a difficulty.
func SlotsFor(d model.Difficulty) int {
	switch d {
	case model.Easy:
		return 3
	case model.Hard:
		return 9
	default:
		return 6
	}
}

// Target is a slot accepting one piece of its kind.
type Target struct {
	ID     int
	Kind   Kind
	Filled bool
}

// Piece is a draggable shape.
type Piece struct {
	ID   int
	Kind Kind
}

// Board holds one round.
type Board struct {
	targets []Target
	pieces  []Piece
}

// New builds n targets and n matching pieces in shuffled order.
func New(n int, rng *rand.Rand) *Board {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if n < 0 {
		n = 0
	}
	b := &Board{
		targets: make([]Target, n),
		pieces:  make([]Piece, n),
	}
	for i := 0; i < n; i++ {
		kind := Palette[i%len(Palette)]
		b.targets[i] = Target{ID: i, Kind: kind}
		b.pieces[i] = Piece{ID: i, Kind: kind}
	}
	rng.Shuffle(n, func(i, j int) {
		b.pieces[i], b.pieces[j] = b.pieces[j], b.pieces[i]
	})
	return b
}

// Targets returns a copy of the slots.
func (b *Board) Targets() []Target {
	return append([]Target(nil), b.targets...)
}

// Pieces returns a copy of the pieces still to place, in display order.
func (b *Board) Pieces() []Piece {
	return append([]Piece(nil), b.pieces...)
}

// Placed counts filled targets.
func (b *Board) Placed() int {
	n := 0
	for _, t := range b.targets {
		if t.Filled {
			n++
		}
	}
	return n
}

// Complete reports whether every target is filled.
func (b *Board) Complete() bool {
	return len(b.targets) > 0 && b.Placed() == len(b.targets)
}

// Drop places a piece on a target when their kinds match. Anything else,
// including unknown ids and filled targets, leaves the board untouched.
func (b *Board) Drop(pieceID, targetID int) bool {
	pi := -1
	for i, p := range b.pieces {
		if p.ID == pieceID {
			pi = i
			break
		}
	}
	ti := -1
	for i, t := range b.targets {
		if t.ID == targetID {
			ti = i
			break
		}
	}
	if pi < 0 || ti < 0 {
		return false
	}
	if b.targets[ti].Filled || b.targets[ti].Kind != b.pieces[pi].Kind {
		return false
	}
	b.targets[ti].Filled = true
	b.pieces = append(b.pieces[:pi], b.pieces[pi+1:]...)
	return true
}
