package board

import (
	"fmt"
	"math"

	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// FixedLayout is authored wall geometry, usually decoded from a layout file
type FixedLayout struct {
	DropX      float64      `toml:"drop_x"`
	SpawnY     float64      `toml:"spawn_y"`
	SpawnWidth float64      `toml:"spawn_width"`
	Polylines  []Polyline   `toml:"polyline"`
	Boxes      []Box        `toml:"box"`
	Paddles    []PaddleSpec `toml:"paddle"`
}

// Polyline is an open chain of wall segments
type Polyline struct {
	Points [][2]float64 `toml:"points"`
}

// Box is a rectangle centered at X, Y rotated by Angle degrees
type Box struct {
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
	W     float64 `toml:"w"`
	H     float64 `toml:"h"`
	Angle float64 `toml:"angle"`
}

// PaddleSpec places a paddle, zero values select defaults
type PaddleSpec struct {
	X               float64 `toml:"x"`
	Y               float64 `toml:"y"`
	HalfLength      float64 `toml:"half_length"`
	AngularVelocity float64 `toml:"angular_velocity"`
	Phase           float64 `toml:"phase"`
	Bounce          float64 `toml:"bounce"`
}

// buildAuthored converts authored geometry into segments
// Zero-length segments are dropped, non-finite coordinates are an error
func buildAuthored(o Options, fl *FixedLayout) (fixedBuild, error) {
	fb := fixedBuild{
		dropX:      fl.DropX,
		spawnY:     fl.SpawnY,
		spawnWidth: fl.SpawnWidth,
	}
	if fb.dropX == 0 {
		fb.dropX = o.Width / 2
	}
	if fb.spawnY == 0 {
		fb.spawnY = 4 * o.MarbleRadius
	}
	if fb.spawnWidth == 0 {
		fb.spawnWidth = o.Width * parameter.SpawnWidthFraction
	}

	add := func(a, b vmath.Vec2) error {
		if !a.IsFinite() || !b.IsFinite() {
			return fmt.Errorf("%w: non-finite wall point", ErrInvalidOptions)
		}
		if a.Sub(b).LenSq() < vmath.Epsilon {
			return nil
		}
		fb.segments = append(fb.segments, Segment{A: a, B: b})
		return nil
	}

	for pi, pl := range fl.Polylines {
		if len(pl.Points) < 2 {
			return fixedBuild{}, fmt.Errorf("%w: polyline %d has %d points", ErrInvalidOptions, pi, len(pl.Points))
		}
		for i := 1; i < len(pl.Points); i++ {
			p0, p1 := pl.Points[i-1], pl.Points[i]
			if err := add(vmath.V(p0[0], p0[1]), vmath.V(p1[0], p1[1])); err != nil {
				return fixedBuild{}, err
			}
		}
	}

	for _, bx := range fl.Boxes {
		corners := bx.corners()
		for i := range corners {
			if err := add(corners[i], corners[(i+1)%4]); err != nil {
				return fixedBuild{}, err
			}
		}
	}

	for _, ps := range fl.Paddles {
		p, ok := ps.resolve()
		if ok {
			fb.paddles = append(fb.paddles, p)
		}
	}

	return fb, nil
}

func (bx Box) corners() [4]vmath.Vec2 {
	hw, hh := bx.W/2, bx.H/2
	local := [4]vmath.Vec2{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	rad := bx.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	c := vmath.V(bx.X, bx.Y)
	var out [4]vmath.Vec2
	for i, p := range local {
		out[i] = c.Add(vmath.V(p.X*cos-p.Y*sin, p.X*sin+p.Y*cos))
	}
	return out
}

// resolve returns false for specs with non-finite values or a non-positive length
func (ps PaddleSpec) resolve() (Paddle, bool) {
	for _, f := range []float64{ps.X, ps.Y, ps.HalfLength, ps.AngularVelocity, ps.Phase, ps.Bounce} {
		if !vmath.IsFinite(f) {
			return Paddle{}, false
		}
	}
	halfLen := ps.HalfLength
	if halfLen == 0 {
		halfLen = parameter.PaddleHalfLength
	}
	if halfLen < 0 {
		return Paddle{}, false
	}
	omega := ps.AngularVelocity
	if omega == 0 {
		omega = parameter.PaddleAngularVelocity
	}
	p := defaultPaddle(vmath.V(ps.X, ps.Y), halfLen, omega, ps.Phase)
	if ps.Bounce > 0 {
		p.Bounce = ps.Bounce
	}
	return p, true
}
