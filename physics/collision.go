package physics

import (
	"math"

	"github.com/lixenwraith/marble-lottery/vmath"
)

// Respond returns v after a bounce off a surface with unit normal n
// The normal component reflects scaled by restitution, the tangential component is damped
// Velocity leaving the surface (v·n >= 0) is returned unchanged
func (p *ContactProfile) Respond(v, n vmath.Vec2) vmath.Vec2 {
	vn := v.Dot(n)
	if vn >= 0 {
		return v
	}
	vt := v.Sub(n.Scale(vn))
	damp := p.TangentDamping
	if vt.Y > 0 {
		damp = p.TangentDampingDown
	}
	return vt.Scale(1 - damp).Sub(n.Scale(p.Restitution * vn))
}

// contactNormal returns the unit push-out direction from q and the penetration depth
// ok is false when out of reach or the distance is degenerate
func contactNormal(pos, q vmath.Vec2, reach float64) (n vmath.Vec2, depth float64, ok bool) {
	d := pos.Sub(q)
	distSq := d.LenSq()
	if distSq >= reach*reach {
		return vmath.Vec2{}, 0, false
	}
	dist := math.Sqrt(distSq)
	if dist < vmath.Epsilon {
		return vmath.Vec2{}, 0, false
	}
	return d.Scale(1 / dist), reach - dist, true
}

// ResolvePoint pushes b to distance reach from q and applies the static response
// Returns true if contact occurred
func ResolvePoint(b *Body, q vmath.Vec2, reach float64, p *ContactProfile) bool {
	n, _, ok := contactNormal(b.Pos, q, reach)
	if !ok {
		return false
	}
	b.Pos = q.Add(n.Scale(reach))
	b.Vel = p.Respond(b.Vel, n)
	return true
}

// ResolveCircle resolves contact with a static circle
func ResolveCircle(b *Body, center vmath.Vec2, radius float64, p *ContactProfile) bool {
	return ResolvePoint(b, center, b.Radius+radius, p)
}

// ResolveSegment resolves contact with a static zero-thickness segment
func ResolveSegment(b *Body, a, c vmath.Vec2, p *ContactProfile) bool {
	q, _ := vmath.ClosestOnSegment(b.Pos, a, c)
	return ResolvePoint(b, q, b.Radius, p)
}

// SeparateSegment is ResolveSegment without velocity response
func SeparateSegment(b *Body, a, c vmath.Vec2) bool {
	q, _ := vmath.ClosestOnSegment(b.Pos, a, c)
	n, _, ok := contactNormal(b.Pos, q, b.Radius)
	if !ok {
		return false
	}
	b.Pos = q.Add(n.Scale(b.Radius))
	return true
}

// ClampX keeps b inside [lo+r, hi-r], responding as a wall when p is non-nil
// Returns true if the body was moved
func ClampX(b *Body, lo, hi float64, p *ContactProfile) bool {
	minX, maxX := lo+b.Radius, hi-b.Radius
	if minX > maxX {
		b.Pos.X = (lo + hi) / 2
		return true
	}
	switch {
	case b.Pos.X < minX:
		b.Pos.X = minX
		if p != nil {
			b.Vel = p.Respond(b.Vel, vmath.V(1, 0))
		}
		return true
	case b.Pos.X > maxX:
		b.Pos.X = maxX
		if p != nil {
			b.Vel = p.Respond(b.Vel, vmath.V(-1, 0))
		}
		return true
	}
	return false
}

// ResolveSpinning resolves contact with an obstacle rotating about pivot at omega rad/s
// q is the closest point of the obstacle core and reach the contact distance from it
// The relative velocity to the surface is reflected, then the surface velocity is re-added
// and the profile's kick, damping, mix, down bias and upward cap are applied
func ResolveSpinning(b *Body, q, pivot vmath.Vec2, reach, omega float64, sp *SurfaceProfile) bool {
	n, _, ok := contactNormal(b.Pos, q, reach)
	if !ok {
		return false
	}
	b.Pos = q.Add(n.Scale(reach))

	// Surface point under the marble and its velocity ω × arm
	contact := q.Add(n.Scale(reach - b.Radius))
	arm := contact.Sub(pivot)
	vs := vmath.ClampMagnitude(vmath.V(-arm.Y, arm.X).Scale(omega), sp.MaxSurfaceSpeed)

	rel := b.Vel.Sub(vs)
	approaching := rel.Dot(n) < 0
	v := vmath.Reflect(rel, n, sp.Bounce).Add(vs)

	t := n.Perp()
	if approaching && sp.Kick > 0 {
		v = v.Add(n.Scale(sp.Kick))
	}
	if sp.Damping > 0 {
		v = v.Sub(t.Scale(v.Dot(t) * sp.Damping))
	}
	v = v.Add(t.Scale(sp.Mix * vs.Dot(t)))
	v.Y += sp.DownBias
	if v.Y < -sp.UpCap {
		v.Y = -sp.UpCap
	}
	b.Vel = v
	return true
}

// ResolvePair separates two overlapping equal-mass bodies symmetrically and
// exchanges the normal impulse when they approach
// Returns true if the bodies overlapped
func ResolvePair(a, b *Body, restitution float64) bool {
	n, depth, ok := contactNormal(b.Pos, a.Pos, a.Radius+b.Radius)
	if !ok {
		return false
	}
	half := n.Scale(depth / 2)
	a.Pos = a.Pos.Sub(half)
	b.Pos = b.Pos.Add(half)

	vn := b.Vel.Sub(a.Vel).Dot(n)
	if vn < 0 {
		j := n.Scale(-(1 + restitution) * vn / 2)
		a.Vel = a.Vel.Sub(j)
		b.Vel = b.Vel.Add(j)
	}
	return true
}

// SeparatePair is ResolvePair without velocity exchange
func SeparatePair(a, b *Body) bool {
	n, depth, ok := contactNormal(b.Pos, a.Pos, a.Radius+b.Radius)
	if !ok {
		return false
	}
	half := n.Scale(depth / 2)
	a.Pos = a.Pos.Sub(half)
	b.Pos = b.Pos.Add(half)
	return true
}
