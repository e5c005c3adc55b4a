package core

import (
	"math"
	"testing"
)

func TestRectFIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     RectF
		expected bool
	}{
		{"overlapping", RectF{0, 0, 10, 10}, RectF{5, 5, 10, 10}, true},
		{"apart horizontally", RectF{0, 0, 10, 10}, RectF{15, 0, 10, 10}, false},
		{"apart vertically", RectF{0, 0, 10, 10}, RectF{0, 15, 10, 10}, false},
		{"touching edges", RectF{0, 0, 10, 10}, RectF{10, 0, 10, 10}, false},
		{"contained", RectF{0, 0, 20, 20}, RectF{5, 5, 5, 5}, true},
		{"fractional overlap", RectF{0, 0, 10, 10}, RectF{9.5, 9.5, 10, 10}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(50, 100, 15)
	if box.Left() != 35 || box.Right() != 65 || box.Top() != 85 || box.Bottom() != 115 {
		t.Errorf("BoxAround(50, 100, 15) = %+v", box)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, m, expected float64
	}{
		{5, 10, 5},
		{-1, 10, 9},
		{-10, 10, 0},
		{-25, 10, 5},
		{25, 10, 5},
		{3, 0, 0},
		{3, -4, 0},
	}

	for _, tc := range tests {
		if got := Wrap(tc.v, tc.m); got != tc.expected {
			t.Errorf("Wrap(%v, %v) = %v, expected %v", tc.v, tc.m, got, tc.expected)
		}
	}
}

func TestWrapStaysInRange(t *testing.T) {
	offset := 0.0
	for i := 0; i < 10000; i++ {
		offset = Wrap(offset-0.7, 48)
		if offset < 0 || offset >= 48 || math.IsNaN(offset) {
			t.Fatalf("step %d: offset %v left [0, 48)", i, offset)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)
	if !r.Contains(10, 10) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(30, 25) {
		t.Error("bottom-right edge is exclusive")
	}
}
