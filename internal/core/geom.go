// Package core provides fundamental types and utilities for the game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an integer axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// RectF is an axis-aligned box in logical field units (pixels of the
// original play field). Edges are open: touching boxes do not overlap.
type RectF struct {
	X, Y float64
	W, H float64
}

// Left returns the x-coordinate of the left edge.
func (r RectF) Left() float64 { return r.X }

// Top returns the y-coordinate of the top edge.
func (r RectF) Top() float64 { return r.Y }

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 { return r.X + r.W }

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether two boxes overlap.
func (r RectF) Intersects(o RectF) bool {
	return r.Right() > o.Left() && r.Left() < o.Right() &&
		r.Bottom() > o.Top() && r.Top() < o.Bottom()
}

// BoxAround returns the bounding box of a circle.
func BoxAround(cx, cy, radius float64) RectF {
	return RectF{X: cx - radius, Y: cy - radius, W: 2 * radius, H: 2 * radius}
}

// Wrap returns v modulo m in [0, m). Unlike math.Mod the result is never
// negative. m <= 0 yields 0.
func Wrap(v, m float64) float64 {
	if m <= 0 {
		return 0
	}
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if r >= m { // -tiny + m rounds up to m
		r = 0
	}
	return r
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
