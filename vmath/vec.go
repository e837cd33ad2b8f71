// Package vmath holds the small numeric primitives shared by every layer:
// 2D vectors, axis-aligned bounds and clamped ranges.
package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D point or direction in world units.
type Vec = r2.Vec

// Box is an axis-aligned rectangle, inclusive on every edge.
type Box = r2.Box

// V builds a Vec.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 { return r2.Norm(r2.Sub(a, b)) }

// DistSq returns the squared distance between a and b.
func DistSq(a, b Vec) float64 { return r2.Norm2(r2.Sub(a, b)) }

// Normalize returns v scaled to unit length, or the zero vector when v has no length.
func Normalize(v Vec) Vec {
	n := r2.Norm(v)
	if n == 0 {
		return Vec{}
	}
	return r2.Scale(1/n, v)
}

// ClampToBox returns p moved onto the nearest point of b.
func ClampToBox(p Vec, b Box) Vec {
	return Vec{
		X: clamp(p.X, b.Min.X, b.Max.X),
		Y: clamp(p.Y, b.Min.Y, b.Max.Y),
	}
}

// InBox reports whether p lies inside b, edges included.
func InBox(p Vec, b Box) bool {
	return b.Contains(p)
}

// Polygon returns n points evenly spaced on a circle of radius r around c,
// starting on the positive X axis.
func Polygon(c Vec, r float64, n int) []Vec {
	if n <= 0 {
		return nil
	}
	pts := make([]Vec, n)
	step := 2 * math.Pi / float64(n)
	for i := range pts {
		a := step * float64(i)
		pts[i] = Vec{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
