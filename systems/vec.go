// Package systems implements the dot lattice, touch state, and the
// per-dot spring simulation kernel.
package systems

import "math"

// Vec2 is a 2D vector in canvas points (or pixels after scaling).
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns |v|.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// smoothstep is the Hermite interpolation s²(3-2s) of x clamped to [a, b].
func smoothstep(a, b, x float32) float32 {
	if b == a {
		if x < a {
			return 0
		}
		return 1
	}
	s := (x - a) / (b - a)
	if s < 0 {
		s = 0
	} else if s > 1 {
		s = 1
	}
	return s * s * (3 - 2*s)
}
