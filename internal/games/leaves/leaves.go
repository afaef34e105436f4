// Package leaves implements the floating-leaves mini-game.
//
// Leaf positions are percentages of the play surface so the field survives
// terminal resizes unchanged.
package leaves

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/tuizen/internal/model"
)

// TickInterval is the animation period.
const TickInterval = 60 * time.Millisecond

const (
	driftTop  = 0.35
	driftLeft = 0.25
	spin      = 1.5
)

// CountFor returns the number of leaves for a difficulty.
func CountFor(d model.Difficulty) int {
	switch d {
	case model.Easy:
		return 6
	case model.Hard:
		return 12
	default:
		return 9
	}
}

// Leaf is a single particle. Top and Left are in [0, 100).
type Leaf struct {
	ID    int
	Top   float64
	Left  float64
	Angle float64
}

// Field is the particle set.
type Field struct {
	leaves  []Leaf
	dragged int
}

// NewField scatters n leaves at random.
func NewField(n int, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f := &Field{dragged: -1}
	for i := 0; i < n; i++ {
		f.leaves = append(f.leaves, Leaf{
			ID:    i,
			Top:   rng.Float64() * 100,
			Left:  rng.Float64() * 100,
			Angle: rng.Float64() * 360,
		})
	}
	return f
}

// Leaves returns a copy of the particles.
func (f *Field) Leaves() []Leaf {
	return append([]Leaf(nil), f.leaves...)
}

// Dragged returns the id of the leaf being dragged, or -1.
func (f *Field) Dragged() int {
	return f.dragged
}

// Advance drifts every leaf except the dragged one. The offset depends on
// elapsed time and leaf id, so leaves move independently.
func (f *Field) Advance(elapsed time.Duration) {
	secs := elapsed.Seconds()
	for i := range f.leaves {
		l := &f.leaves[i]
		if l.ID == f.dragged {
			continue
		}
		seed := float64(l.ID) * 1.7
		l.Top = wrap(l.Top + math.Sin(secs+seed)*driftTop)
		l.Left = wrap(l.Left + math.Cos(secs*0.8+seed)*driftLeft)
		l.Angle = math.Mod(l.Angle+spin, 360)
	}
}

// Grab starts dragging a leaf. Unknown ids are ignored.
func (f *Field) Grab(id int) bool {
	if f.index(id) < 0 {
		return false
	}
	f.dragged = id
	return true
}

// DragTo pins the dragged leaf to a pointer position.
func (f *Field) DragTo(id int, top, left float64) bool {
	if id != f.dragged {
		return false
	}
	i := f.index(id)
	if i < 0 {
		return false
	}
	f.leaves[i].Top = clamp(top)
	f.leaves[i].Left = clamp(left)
	return true
}

// Release returns the dragged leaf to the drift from where it was dropped.
func (f *Field) Release() {
	f.dragged = -1
}

// LeafAt returns the leaf nearest to (top, left) within radius percent.
func (f *Field) LeafAt(top, left, radius float64) (int, bool) {
	best, bestDist := -1, math.MaxFloat64
	for _, l := range f.leaves {
		d := math.Hypot(l.Top-top, l.Left-left)
		if d <= radius && d < bestDist {
			best, bestDist = l.ID, d
		}
	}
	return best, best >= 0
}

func (f *Field) index(id int) int {
	for i, l := range f.leaves {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func wrap(v float64) float64 {
	v = math.Mod(v, 100)
	if v < 0 {
		v += 100
	}
	return v
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= 100 {
		return math.Nextafter(100, 0)
	}
	return v
}
