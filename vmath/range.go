package vmath

import (
	"errors"
	"fmt"
)

var (
	// ErrInvertedBounds is returned when a bound change would put min above max.
	ErrInvertedBounds = errors.New("vmath: min above max")
	// ErrDegenerateRange is returned when normalizing a range whose min equals max.
	ErrDegenerateRange = errors.New("vmath: cannot normalize a zero-width range")
)

// Range is a float value held inside [min, max]. Every mutation clamps.
// The zero value is the degenerate range [0, 0].
type Range struct {
	value float64
	min   float64
	max   float64
}

// NewRange builds a range and clamps value into it.
func NewRange(value, min, max float64) (Range, error) {
	if min > max {
		return Range{}, fmt.Errorf("new range [%g, %g]: %w", min, max, ErrInvertedBounds)
	}
	r := Range{min: min, max: max}
	r.Set(value)
	return r, nil
}

// MustRange is NewRange for literal bounds known to be valid.
func MustRange(value, min, max float64) Range {
	r, err := NewRange(value, min, max)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) Value() float64 { return r.value }
func (r Range) Min() float64 { return r.min }
func (r Range) Max() float64 { return r.max }

// IsMin reports whether the value sits on the floor.
func (r Range) IsMin() bool { return r.value <= r.min }

// IsMax reports whether the value sits on the ceiling.
func (r Range) IsMax() bool { return r.value >= r.max }

// Set stores v clamped to the bounds.
func (r *Range) Set(v float64) {
	r.value = clamp(v, r.min, r.max)
}

// Increase adds d and clamps. Negative d decreases.
func (r *Range) Increase(d float64) { r.Set(r.value + d) }

// Decrease subtracts d and clamps.
func (r *Range) Decrease(d float64) { r.Set(r.value - d) }

// Take removes up to d from the value and returns how much was actually removed.
func (r *Range) Take(d float64) float64 {
	if d <= 0 {
		return 0
	}
	before := r.value
	r.Decrease(d)
	return before - r.value
}

// SetMax moves the ceiling, clamping the value if needed.
func (r *Range) SetMax(m float64) error {
	if m < r.min {
		return fmt.Errorf("set max %g below min %g: %w", m, r.min, ErrInvertedBounds)
	}
	r.max = m
	r.Set(r.value)
	return nil
}

// SetMin moves the floor, clamping the value if needed.
func (r *Range) SetMin(m float64) error {
	if m > r.max {
		return fmt.Errorf("set min %g above max %g: %w", m, r.max, ErrInvertedBounds)
	}
	r.min = m
	r.Set(r.value)
	return nil
}

// Normalize maps the value onto [0, 1].
func (r Range) Normalize() (float64, error) {
	if r.min == r.max {
		return 0, ErrDegenerateRange
	}
	return (r.value - r.min) / (r.max - r.min), nil
}

func (r Range) String() string {
	return fmt.Sprintf("%g [%g, %g]", r.value, r.min, r.max)
}

// Counter is an integer counter on [0, max].
type Counter struct {
	value int
	max   int
}

// NewCounter returns a counter starting at zero. Negative max is treated as zero.
func NewCounter(max int) Counter {
	if max < 0 {
		max = 0
	}
	return Counter{max: max}
}

func (c Counter) Value() int { return c.value }
func (c Counter) Max() int { return c.max }

// Increment steps up by one and reports whether the counter is now full.
func (c *Counter) Increment() bool {
	if c.value < c.max {
		c.value++
	}
	return c.value == c.max
}

// Decrement steps down by one and reports whether the counter is now empty.
func (c *Counter) Decrement() bool {
	if c.value > 0 {
		c.value--
	}
	return c.value == 0
}

// Reset sets the counter back to v, clamped.
func (c *Counter) Reset(v int) {
	c.value = max(0, min(v, c.max))
}
