package core

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, 1)

	if got := a.Add(b); got != V(4, 5) {
		t.Errorf("Add() = %v, expected (4, 5)", got)
	}
	if got := a.Sub(b); got != V(2, 3) {
		t.Errorf("Sub() = %v, expected (2, 3)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v, expected (6, 8)", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len() = %f, expected 5", got)
	}
	if got := a.Dist(V(0, 0)); got != 5 {
		t.Errorf("Dist() = %f, expected 5", got)
	}
}

func TestVec2IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec2
		expected bool
	}{
		{"zero", V(0, 0), true},
		{"regular", V(-12.5, 300), true},
		{"nan x", V(math.NaN(), 0), false},
		{"inf y", V(0, math.Inf(1)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.IsFinite(); got != tc.expected {
				t.Errorf("IsFinite() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoundsClampAndContains(t *testing.T) {
	b := NewBounds(800, 600).Inset(15)

	tests := []struct {
		name     string
		p        Vec2
		expected Vec2
		inside   bool
	}{
		{"inside", V(400, 300), V(400, 300), true},
		{"left of field", V(-50, 300), V(15, 300), false},
		{"below field", V(400, 900), V(400, 585), false},
		{"top-right corner", V(1000, -1000), V(785, 15), false},
		{"on inset edge", V(15, 15), V(15, 15), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.p); got != tc.inside {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.inside)
			}
			got := b.Clamp(tc.p)
			if got != tc.expected {
				t.Errorf("Clamp(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
			if !b.Contains(got) {
				t.Errorf("Clamp(%v) = %v is outside bounds", tc.p, got)
			}
		})
	}
}

func TestBoundsDimensions(t *testing.T) {
	b := NewBounds(800, 600)
	if b.Width() != 800 || b.Height() != 600 {
		t.Errorf("dimensions = %fx%f, expected 800x600", b.Width(), b.Height())
	}
	if c := b.Center(); c != V(400, 300) {
		t.Errorf("Center() = %v, expected (400, 300)", c)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
