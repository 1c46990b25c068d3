package board

import (
	"github.com/lixenwraith/marble-lottery/vmath"
)

// RotorSpec is a caller-supplied rotor placement
// Position is world X, Y or fractional FX, FY in [0,1]; world coordinates win when both are set
// Nil overrides keep the defaults
type RotorSpec struct {
	X  *float64 `toml:"x"`
	Y  *float64 `toml:"y"`
	FX *float64 `toml:"fx"`
	FY *float64 `toml:"fy"`

	Radius          *float64 `toml:"radius"`
	AngularVelocity *float64 `toml:"angular_velocity"`
	Bounce          *float64 `toml:"bounce"`
	Kick            *float64 `toml:"kick"`
	Damping         *float64 `toml:"damping"`
	DownBias        *float64 `toml:"down_bias"`
	UpCap           *float64 `toml:"up_cap"`
}

// ResolveRotors converts specs into rotors for a w×h world
// Entries with missing, non-finite or out-of-world positions or unusable overrides are skipped
func ResolveRotors(specs []RotorSpec, w, h float64) []Rotor {
	out := make([]Rotor, 0, len(specs))
	for _, s := range specs {
		if r, ok := s.resolve(w, h); ok {
			out = append(out, r)
		}
	}
	return out
}

func (s RotorSpec) resolve(w, h float64) (Rotor, bool) {
	x, okX := axis(s.X, s.FX, w)
	y, okY := axis(s.Y, s.FY, h)
	if !okX || !okY {
		return Rotor{}, false
	}

	r := defaultRotor(vmath.V(x, y))
	overrides := []struct {
		src    *float64
		dst    *float64
		lo, hi float64
	}{
		{s.Radius, &r.Radius, vmath.Epsilon, w},
		{s.AngularVelocity, &r.AngularVelocity, -1e3, 1e3},
		{s.Bounce, &r.Bounce, 0, 2},
		{s.Kick, &r.Kick, 0, 1e4},
		{s.Damping, &r.Damping, 0, 1},
		{s.DownBias, &r.DownBias, 0, 1e4},
		{s.UpCap, &r.UpCap, 0, 1e5},
	}
	for _, o := range overrides {
		if o.src == nil {
			continue
		}
		v := *o.src
		if !vmath.IsFinite(v) || v < o.lo || v > o.hi {
			return Rotor{}, false
		}
		*o.dst = v
	}
	return r, true
}

// axis resolves one coordinate from a world value or a fraction of size
func axis(world, frac *float64, size float64) (float64, bool) {
	var v float64
	switch {
	case world != nil:
		v = *world
	case frac != nil:
		if !vmath.IsFinite(*frac) || *frac < 0 || *frac > 1 {
			return 0, false
		}
		v = *frac * size
	default:
		return 0, false
	}
	if !vmath.IsFinite(v) || v < 0 || v > size {
		return 0, false
	}
	return v, true
}
