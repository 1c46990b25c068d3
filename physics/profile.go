package physics

import (
	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/parameter"
)

// ContactProfile defines the response of a static surface
type ContactProfile struct {
	Restitution float64 // Normal velocity retained on bounce
	// TangentDamping is the tangential velocity fraction removed per contact
	TangentDamping float64
	// TangentDampingDown replaces TangentDamping while sliding downward
	TangentDampingDown float64
}

// SurfaceProfile defines the response of a moving obstacle
type SurfaceProfile struct {
	MaxSurfaceSpeed float64
	Bounce          float64 // Restitution of the relative normal velocity
	Kick            float64 // Outward speed added on approach
	Damping         float64 // Tangential velocity fraction removed
	Mix             float64 // Fraction of surface tangential speed transferred
	DownBias        float64 // Downward speed added per contact
	UpCap           float64 // Maximum upward speed after contact
}

// Contact profiles - pre-defined for zero allocation in hot path

// Wall is the profile of world bounds, corridor walls and fixed segments
var Wall = ContactProfile{
	Restitution:        parameter.WallRestitution,
	TangentDamping:     parameter.WallTangentDamping,
	TangentDampingDown: parameter.WallTangentDampingDown,
}

// Peg is the profile of grid pegs
var Peg = ContactProfile{
	Restitution:        parameter.PegRestitution,
	TangentDamping:     parameter.PegTangentDamping,
	TangentDampingDown: parameter.PegTangentDamping,
}

// PaddleSurface returns the surface profile of a board paddle
func PaddleSurface(p *board.Paddle) SurfaceProfile {
	return SurfaceProfile{
		MaxSurfaceSpeed: p.MaxSurfaceSpeed,
		Bounce:          p.Bounce,
		Mix:             p.Mix,
		DownBias:        p.DownBias,
		UpCap:           p.UpCap,
	}
}

// RotorSurface returns the surface profile of a board rotor
func RotorSurface(r *board.Rotor) SurfaceProfile {
	return SurfaceProfile{
		MaxSurfaceSpeed: r.MaxSurfaceSpeed,
		Bounce:          r.Bounce,
		Kick:            r.Kick,
		Damping:         r.Damping,
		Mix:             r.Mix,
		DownBias:        r.DownBias,
		UpCap:           r.UpCap,
	}
}
