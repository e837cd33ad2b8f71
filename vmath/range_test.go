package vmath

import (
	"errors"
	"math"
	"testing"
)

func TestRangeClamp(t *testing.T) {
	deltas := []float64{0, 1, -1, 1e9, -1e9, math.MaxFloat64, -math.MaxFloat64, 0.25, -7.5}

	r := MustRange(5, 0, 10)
	for _, d := range deltas {
		r.Increase(d)
		if r.Value() < r.Min() || r.Value() > r.Max() {
			t.Fatalf("value escaped after Increase(%g): %v", d, r)
		}
		r.Decrease(d)
		if r.Value() < r.Min() || r.Value() > r.Max() {
			t.Fatalf("value escaped after Decrease(%g): %v", d, r)
		}
	}
}

func TestRangeOperations(t *testing.T) {
	tests := []struct {
		name string
		op   func(r *Range)
		want float64
	}{
		{"set above max", func(r *Range) { r.Set(20) }, 10},
		{"set below min", func(r *Range) { r.Set(-3) }, 0},
		{"increase", func(r *Range) { r.Increase(2) }, 7},
		{"decrease past floor", func(r *Range) { r.Decrease(100) }, 0},
		{"negative increase", func(r *Range) { r.Increase(-1) }, 4},
		{"lower max clamps", func(r *Range) { _ = r.SetMax(3) }, 3},
		{"raise min clamps", func(r *Range) { _ = r.SetMin(6) }, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MustRange(5, 0, 10)
			tt.op(&r)
			if r.Value() != tt.want {
				t.Errorf("value wrong: got %g, want %g", r.Value(), tt.want)
			}
		})
	}
}

func TestRangeTake(t *testing.T) {
	r := MustRange(3, 0, 10)
	if got := r.Take(5); got != 3 {
		t.Errorf("taken wrong: got %g, want 3", got)
	}
	if !r.IsMin() {
		t.Errorf("expected range on floor, got %v", r)
	}
	if got := r.Take(-1); got != 0 {
		t.Errorf("negative take should remove nothing, got %g", got)
	}
}

func TestRangeBoundErrors(t *testing.T) {
	r := MustRange(5, 2, 10)
	if err := r.SetMax(1); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("SetMax below min: got %v, want ErrInvertedBounds", err)
	}
	if err := r.SetMin(11); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("SetMin above max: got %v, want ErrInvertedBounds", err)
	}
	if r.Min() != 2 || r.Max() != 10 {
		t.Errorf("failed bound change must not modify range, got %v", r)
	}
	if _, err := NewRange(0, 3, 1); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("NewRange inverted: got %v", err)
	}
}

func TestRangeNormalize(t *testing.T) {
	r := MustRange(15, 10, 20)
	n, err := r.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0.5 {
		t.Errorf("normalized wrong: got %g, want 0.5", n)
	}

	flat := MustRange(1, 1, 1)
	if _, err := flat.Normalize(); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("expected ErrDegenerateRange, got %v", err)
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter(2)
	if c.Increment() {
		t.Error("counter full after one step")
	}
	if !c.Increment() {
		t.Error("counter not full after two steps")
	}
	if !c.Increment() || c.Value() != 2 {
		t.Errorf("counter overflowed: got %d", c.Value())
	}
	c.Decrement()
	if !c.Decrement() {
		t.Error("counter not empty after stepping down")
	}
	if !c.Decrement() || c.Value() != 0 {
		t.Errorf("counter underflowed: got %d", c.Value())
	}
}
