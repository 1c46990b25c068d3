package board

import (
	"fmt"
	"math"

	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// ZigZagOptions shape the generated fixed layout, zero values select defaults
type ZigZagOptions struct {
	// Levels is the shelf count, 0 fits as many as the height allows
	Levels   int     `toml:"levels"`
	SlopeDeg float64 `toml:"slope_deg"`
	// Gap is the drop opening between a shelf tip and the opposite wall
	Gap float64 `toml:"gap"`
	// Clearance is the minimum vertical distance between stacked shelves
	Clearance   float64 `toml:"clearance"`
	TopY        float64 `toml:"top_y"`
	NoObstacles bool    `toml:"no_obstacles"`
}

type fixedBuild struct {
	segments   []Segment
	paddles    []Paddle
	rotors     []Rotor
	dropX      float64
	spawnY     float64
	spawnWidth float64
}

// buildZigZag generates alternating sloped shelves
//
//	|\______          |
//	|       \______   |   even shelves hang from the left wall
//	|   ______/       |   odd shelves from the right wall
//	|  /              |
//
// Each shelf tip leaves Gap to the opposite wall; marbles drop through it onto the
// high end of the next shelf. Paddles and rotors sit mid-span above shelves 1..n-1
// with at least ZigZagObstacleClearanceFactor radii under them, so a rolling marble
// passes below and nothing can press a marble through a shelf
func buildZigZag(o Options, finishY float64) (fixedBuild, error) {
	z := o.ZigZag
	r := o.MarbleRadius
	w := o.Width

	if z.SlopeDeg == 0 {
		z.SlopeDeg = parameter.ZigZagSlopeDeg
	}
	if z.Gap == 0 {
		z.Gap = parameter.ZigZagGapFactor * r
	}
	if z.Clearance == 0 {
		z.Clearance = parameter.ZigZagClearanceFactor * r
	}
	if z.TopY == 0 {
		z.TopY = o.Height * parameter.ZigZagTopFraction
	}

	switch {
	case !(z.SlopeDeg > 1 && z.SlopeDeg < 60):
		return fixedBuild{}, fmt.Errorf("%w: zigzag slope %g deg", ErrInvalidOptions, z.SlopeDeg)
	case z.Gap < 3*r || 2*z.Gap >= w:
		return fixedBuild{}, fmt.Errorf("%w: zigzag gap %g for width %g", ErrInvalidOptions, z.Gap, w)
	case z.Clearance < 3*r:
		return fixedBuild{}, fmt.Errorf("%w: zigzag clearance %g", ErrInvalidOptions, z.Clearance)
	case z.Levels < 0:
		return fixedBuild{}, fmt.Errorf("%w: zigzag levels %d", ErrInvalidOptions, z.Levels)
	}

	s := math.Tan(z.SlopeDeg * math.Pi / 180)
	shelfDrop := s * (w - z.Gap)
	pitch := z.Clearance + s*(w-2*z.Gap)

	levels := 0
	if room := finishY - 4*r - shelfDrop - z.TopY; room >= 0 {
		levels = int(room/pitch) + 1
	}
	if z.Levels > 0 && z.Levels < levels {
		levels = z.Levels
	}

	fb := fixedBuild{
		dropX:      w / 2,
		spawnY:     z.TopY - 3*r,
		spawnWidth: w * 0.8,
	}

	// Side walls reach above the world so the spawn stack stays contained
	fb.segments = append(fb.segments,
		Segment{A: vmath.V(0, -o.Height), B: vmath.V(0, o.Height)},
		Segment{A: vmath.V(w, -o.Height), B: vmath.V(w, o.Height)},
	)

	for i := 0; i < levels; i++ {
		y := z.TopY + float64(i)*pitch
		if i%2 == 0 {
			fb.segments = append(fb.segments, Segment{A: vmath.V(0, y), B: vmath.V(w-z.Gap, y+shelfDrop)})
		} else {
			fb.segments = append(fb.segments, Segment{A: vmath.V(w, y), B: vmath.V(z.Gap, y+shelfDrop)})
		}
	}

	if z.NoObstacles {
		return fb, nil
	}

	inv := 1 / math.Sqrt(1+s*s)
	avail := pitch * inv
	lift := parameter.ZigZagObstacleClearanceFactor * r
	paddleIdx := 0

	for i := 1; i < levels; i++ {
		y := z.TopY + float64(i)*pitch
		mid := vmath.V(w/2, y+s*w/2)
		up := vmath.V(s*inv, -inv)
		if i%2 == 1 {
			up.X = -up.X
		}

		if i%2 == 1 {
			halfLen := math.Min(parameter.PaddleHalfLength, (avail-2*(parameter.PaddleHalfThickness+lift))/2)
			if halfLen < 2*r {
				continue
			}
			// Clockwise spin sweeps the lower tip along the leftward flow of odd shelves
			fb.paddles = append(fb.paddles, defaultPaddle(
				mid.Add(up.Scale(halfLen+parameter.PaddleHalfThickness+lift)),
				halfLen, parameter.PaddleAngularVelocity, float64(paddleIdx)*math.Pi/2,
			))
			paddleIdx++
			continue
		}

		radius := parameter.RotorRadius
		if avail < 2*radius+2*lift {
			continue
		}
		fb.rotors = append(fb.rotors, defaultRotor(mid.Add(up.Scale(radius+lift))))
	}

	return fb, nil
}

func defaultPaddle(center vmath.Vec2, halfLen, omega, phase float64) Paddle {
	return Paddle{
		Center:          center,
		HalfLength:      halfLen,
		HalfThickness:   parameter.PaddleHalfThickness,
		AngularVelocity: omega,
		Phase:           phase,
		MaxSurfaceSpeed: parameter.PaddleMaxSurfaceSpeed,
		Bounce:          parameter.PaddleBounce,
		Mix:             parameter.PaddleMix,
		DownBias:        parameter.PaddleDownBias,
		UpCap:           parameter.PaddleUpCap,
	}
}

func defaultRotor(center vmath.Vec2) Rotor {
	return Rotor{
		Center:          center,
		Radius:          parameter.RotorRadius,
		AngularVelocity: parameter.RotorAngularVelocity,
		MaxSurfaceSpeed: parameter.RotorMaxSurfaceSpeed,
		Bounce:          parameter.RotorBounce,
		Kick:            parameter.RotorKick,
		Damping:         parameter.RotorDamping,
		Mix:             parameter.RotorMix,
		DownBias:        parameter.RotorDownBias,
		UpCap:           parameter.RotorUpCap,
	}
}
