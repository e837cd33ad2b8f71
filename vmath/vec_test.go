package vmath

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize(V(3, 4))
	if math.Abs(got.X-0.6) > 1e-12 || math.Abs(got.Y-0.8) > 1e-12 {
		t.Errorf("normalize wrong: got %v, want (0.6, 0.8)", got)
	}
	if z := Normalize(Vec{}); z != (Vec{}) {
		t.Errorf("zero vector should stay zero, got %v", z)
	}
}

func TestClampToBox(t *testing.T) {
	b := Box{Min: V(0, 0), Max: V(100, 50)}
	tests := []struct {
		in, want Vec
	}{
		{V(-5, -5), V(0, 0)},
		{V(120, 10), V(100, 10)},
		{V(30, 60), V(30, 50)},
		{V(30, 20), V(30, 20)},
	}
	for _, tt := range tests {
		if got := ClampToBox(tt.in, b); got != tt.want {
			t.Errorf("ClampToBox(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !InBox(V(100, 50), b) || !InBox(V(0, 0), b) {
		t.Error("box edges should be inside")
	}
}

func TestPolygon(t *testing.T) {
	pts := Polygon(V(10, 10), 5, 4)
	if len(pts) != 4 {
		t.Fatalf("got %d points, want 4", len(pts))
	}
	for i, p := range pts {
		if d := Dist(p, V(10, 10)); math.Abs(d-5) > 1e-9 {
			t.Errorf("point %d at distance %g, want 5", i, d)
		}
	}
	if Polygon(V(0, 0), 1, 0) != nil {
		t.Error("zero-sided polygon should be nil")
	}
}
