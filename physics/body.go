// Package physics holds the marble motion and contact primitives
// All functions mutate a Body in place and never allocate
package physics

import (
	"github.com/lixenwraith/marble-lottery/vmath"
)

// Body is the kinematic state of one marble
type Body struct {
	Pos    vmath.Vec2
	Vel    vmath.Vec2
	Radius float64
}

// Integrate performs one semi-implicit Euler step: gravity, per-axis drag and speed cap on v, then p += v*h
func Integrate(b *Body, gravity, dragX, dragY, maxSpeed, h float64) {
	b.Vel.Y += gravity * h
	b.Vel.X *= dragFactor(dragX, h)
	b.Vel.Y *= dragFactor(dragY, h)
	b.Vel = vmath.ClampMagnitude(b.Vel, maxSpeed)
	b.Pos = b.Pos.Add(b.Vel.Scale(h))
}

// dragFactor is the per-step velocity multiplier, never negative for large h
func dragFactor(k, h float64) float64 {
	f := 1 - k*h
	if f < 0 {
		return 0
	}
	return f
}

// CapSpeed limits the velocity magnitude to maxSpeed
// Returns true if velocity was clamped
func CapSpeed(b *Body, maxSpeed float64) bool {
	if b.Vel.LenSq() <= maxSpeed*maxSpeed {
		return false
	}
	b.Vel = vmath.ClampMagnitude(b.Vel, maxSpeed)
	return true
}

// Speed returns the velocity magnitude
func (b *Body) Speed() float64 {
	return b.Vel.Len()
}

// Freeze zeroes velocity and pins the body at pos
func (b *Body) Freeze(pos vmath.Vec2) {
	b.Pos = pos
	b.Vel = vmath.Vec2{}
}
