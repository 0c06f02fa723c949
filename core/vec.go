package core

import "math"

// Vec2 is a 2D float vector used for transforms and physics
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// One is the identity scale
var One = Vec2{1, 1}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Mul is the component-wise product
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{v.X * o.X, v.Y * o.Y}
}

// Div is the component-wise quotient; a zero divisor component yields zero
func (v Vec2) Div(o Vec2) Vec2 {
	var r Vec2
	if o.X != 0 {
		r.X = v.X / o.X
	}
	if o.Y != 0 {
		r.Y = v.Y / o.Y
	}
	return r
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

// Rotate applies a 2D rotation matrix, angle in radians counter-clockwise
func (v Vec2) Rotate(angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// ApproxEqual compares within eps per component
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}
