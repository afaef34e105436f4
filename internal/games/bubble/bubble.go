// Package bubble implements the bubble-pop mini-game.
package bubble

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuizen/internal/games"
	"github.com/verte-zerg/tuizen/internal/model"
)

// Params tunes a round.
type Params struct {
	MoveEvery time.Duration
	Duration  int
}

// ParamsFor returns the round parameters of a difficulty.
func ParamsFor(d model.Difficulty) Params {
	switch d {
	case model.Easy:
		return Params{MoveEvery: 1400 * time.Millisecond, Duration: 35}
	case model.Hard:
		return Params{MoveEvery: 700 * time.Millisecond, Duration: 25}
	default:
		return Params{MoveEvery: 1000 * time.Millisecond, Duration: 30}
	}
}

// DefaultSize is the bubble footprint in cells. Cells are about twice as
// tall as wide, so this draws a round bubble.
var DefaultSize = games.Bounds{Width: 6, Height: 3}

// Position is the top-left cell of the bubble.
type Position struct {
	Top  int
	Left int
}

// State is a snapshot of a round.
type State struct {
	Score            int
	SecondsRemaining int
	Position         Position
	Playing          bool
}

// Game is one bubble-pop round.
type Game struct {
	params Params
	size   games.Bounds
	rng    *rand.Rand
	state  State
}

// New returns an idle game.
func New(params Params, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{params: params, size: DefaultSize, rng: rng}
}

// Params returns the round parameters.
func (g *Game) Params() Params {
	return g.params
}

// Size returns the bubble footprint.
func (g *Game) Size() games.Bounds {
	return g.size
}

// State returns a snapshot.
func (g *Game) State() State {
	return g.state
}

// Start begins a round and places the bubble.
func (g *Game) Start(b games.Bounds) {
	g.state = State{SecondsRemaining: g.params.Duration, Playing: true}
	g.Relocate(b)
}

// Abort ends the round without a result.
func (g *Game) Abort() {
	g.state.Playing = false
}

// TickSecond advances the countdown. It returns true exactly once per round,
// on the tick that ends it.
func (g *Game) TickSecond() bool {
	if !g.state.Playing {
		return false
	}
	if g.state.SecondsRemaining > 0 {
		g.state.SecondsRemaining--
	}
	if g.state.SecondsRemaining == 0 {
		g.state.Playing = false
		return true
	}
	return false
}

// Pop scores a hit. Popping an idle game does nothing.
func (g *Game) Pop() bool {
	if !g.state.Playing {
		return false
	}
	g.state.Score++
	return true
}

// Relocate moves the bubble to a uniformly random spot fully inside b. It
// does nothing when the bubble does not fit.
func (g *Game) Relocate(b games.Bounds) bool {
	if b.Empty() || b.Width < g.size.Width || b.Height < g.size.Height {
		return false
	}
	g.state.Position = Position{
		Top:  g.rng.Intn(b.Height - g.size.Height + 1),
		Left: g.rng.Intn(b.Width - g.size.Width + 1),
	}
	return true
}

// HitTest reports whether the cell (x, y) is on the bubble.
func (g *Game) HitTest(x, y int) bool {
	if !g.state.Playing {
		return false
	}
	p := g.state.Position
	return x >= p.Left && x < p.Left+g.size.Width && y >= p.Top && y < p.Top+g.size.Height
}
