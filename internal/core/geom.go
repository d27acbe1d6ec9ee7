// Package core provides fundamental types and utilities shared by the simulation
// and its frontends. It contains no external dependencies (especially no Bubble Tea)
// to keep game logic pure and testable.
package core

import "math"

// Vec is a point or displacement in world units.
type Vec struct {
	X, Y float64
}

// Rect represents an axis-aligned box in world units.
// X, Y is the top-left corner; Y grows downward.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// ClosestPoint returns the point inside r nearest to p.
func (r Rect) ClosestPoint(p Vec) Vec {
	return Vec{
		X: ClampF(p.X, r.X, r.Right()),
		Y: ClampF(p.Y, r.Y, r.Bottom()),
	}
}

// Circle is a disc in world units.
type Circle struct {
	Center Vec
	Radius float64
}

// IntersectsRect tests the circle against an axis-aligned rectangle using the
// clamped closest point. Contact at exactly the radius is not a hit.
func (c Circle) IntersectsRect(r Rect) bool {
	p := r.ClosestPoint(c.Center)
	dx := c.Center.X - p.X
	dy := c.Center.Y - p.Y
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// DistanceToRect returns the distance from the circle centre to the nearest
// point of r. Zero when the centre lies inside r.
func (c Circle) DistanceToRect(r Rect) float64 {
	p := r.ClosestPoint(c.Center)
	return math.Hypot(c.Center.X-p.X, c.Center.Y-p.Y)
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

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
