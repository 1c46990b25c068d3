package vmath

import "math"

// Vec2 is a point or direction in world units, Y grows downward
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }
func (a Vec2) LenSq() float64 { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64 { return math.Sqrt(a.X*a.X + a.Y*a.Y) }
func (a Vec2) Dist(b Vec2) float64 { return a.Sub(b).Len() }
func (a Vec2) IsZero() bool { return a.X == 0 && a.Y == 0 }
func (a Vec2) IsFinite() bool { return IsFinite(a.X) && IsFinite(a.Y) }

// Perp returns the vector rotated 90° counter-clockwise in screen space
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

// Normalize returns the unit vector, zero-safe
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// FromAngle returns the unit vector at angle radians
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// ClampMagnitude limits vector length to maxMag while preserving direction
func ClampMagnitude(v Vec2, maxMag float64) Vec2 {
	lsq := v.LenSq()
	if lsq <= maxMag*maxMag || lsq == 0 {
		return v
	}
	return v.Scale(maxMag / math.Sqrt(lsq))
}

// Reflect returns v reflected across unit normal n with restitution e
// v' = v - (1+e)(v·n)n, only when v approaches the surface (v·n < 0)
func Reflect(v, n Vec2, e float64) Vec2 {
	vn := v.Dot(n)
	if vn >= 0 {
		return v
	}
	return v.Sub(n.Scale((1 + e) * vn))
}

// ClosestOnSegment projects p onto segment ab, returns the closest point and its parameter in [0, 1]
func ClosestOnSegment(p, a, b Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	lsq := ab.LenSq()
	if lsq < Epsilon {
		return a, 0
	}
	t := Clamp(p.Sub(a).Dot(ab)/lsq, 0, 1)
	return a.Add(ab.Scale(t)), t
}
