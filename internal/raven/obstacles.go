package raven

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/raven-flight/internal/core"
)

// Obstacle is a column with a gap the raven must fly through.
type Obstacle struct {
	X         float64 // left edge
	GapTop    float64
	GapHeight float64
	Width     float64
	Scored    bool
}

// Right returns the x-coordinate of the right edge.
func (o Obstacle) Right() float64 {
	return o.X + o.Width
}

// GapBottom returns the y-coordinate where the lower gate starts.
func (o Obstacle) GapBottom() float64 {
	return o.GapTop + o.GapHeight
}

// TopRect is the upper gate, from the top of the field to the gap.
func (o Obstacle) TopRect() core.RectF {
	return core.RectF{X: o.X, Y: 0, W: o.Width, H: o.GapTop}
}

// BottomRect is the lower gate, from the gap down to floor.
func (o Obstacle) BottomRect(floor float64) core.RectF {
	return core.RectF{X: o.X, Y: o.GapBottom(), W: o.Width, H: math.Max(0, floor-o.GapBottom())}
}

// Blocks reports whether box overlaps the obstacle horizontally while
// leaving the gap. upper is true when the box crosses the top of the gap.
func (o Obstacle) Blocks(box core.RectF) (hit, upper bool) {
	if box.Right() <= o.X || box.Left() >= o.Right() {
		return false, false
	}
	if box.Top() < o.GapTop {
		return true, true
	}
	if box.Bottom() > o.GapBottom() {
		return true, false
	}
	return false, false
}

// ObstacleQueue holds obstacles in creation order, which is also their
// left-to-right order on the field.
type ObstacleQueue struct {
	items []Obstacle
}

// Len returns the number of active obstacles.
func (q *ObstacleQueue) Len() int {
	return len(q.items)
}

// All returns a copy of the active obstacles.
func (q *ObstacleQueue) All() []Obstacle {
	out := make([]Obstacle, len(q.items))
	copy(out, q.items)
	return out
}

// Push appends an obstacle at the back (right) of the queue.
func (q *ObstacleQueue) Push(o Obstacle) {
	q.items = append(q.items, o)
}

// Clear removes every obstacle.
func (q *ObstacleQueue) Clear() {
	q.items = q.items[:0]
}

// Collide returns the cause of the first obstacle box runs into.
func (q *ObstacleQueue) Collide(box core.RectF) (Cause, bool) {
	for _, o := range q.items {
		if hit, upper := o.Blocks(box); hit {
			if upper {
				return CauseSkyWind, true
			}
			return CauseRoots, true
		}
	}
	return CauseNone, false
}

// Advance moves every obstacle left by dx.
func (q *ObstacleQueue) Advance(dx float64) {
	for i := range q.items {
		q.items[i].X -= dx
	}
}

// MarkPassed flags obstacles whose right edge is now behind edge and returns
// how many were newly passed. Each obstacle counts once.
func (q *ObstacleQueue) MarkPassed(edge float64) int {
	passed := 0
	for i := range q.items {
		if !q.items[i].Scored && q.items[i].Right() < edge {
			q.items[i].Scored = true
			passed++
		}
	}
	return passed
}

// Expire drops obstacles that left the field on the left, keeping the order
// of the rest. It returns the number removed.
func (q *ObstacleQueue) Expire() int {
	kept := q.items[:0]
	for _, o := range q.items {
		if o.Right() > 0 {
			kept = append(kept, o)
		}
	}
	removed := len(q.items) - len(kept)
	q.items = kept
	return removed
}

// gateRange returns the inclusive range for the top of a new gap. The upper
// bound never drops below the lower one.
func gateRange(fieldH, gapHeight, groundH, minGate, margin float64) (lo, hi float64) {
	lo = minGate
	hi = math.Max(lo, fieldH-gapHeight-groundH-margin)
	return lo, hi
}

// randomGapTop draws an integer gap top uniformly from [lo, hi].
func randomGapTop(rng *rand.Rand, lo, hi float64) float64 {
	return math.Floor(rng.Float64()*(math.Floor(hi)-lo+1)) + lo
}
