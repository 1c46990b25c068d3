// Package board builds the immutable obstacle geometry a run is simulated on
package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/lixenwraith/marble-lottery/vmath"
)

// LayoutKind selects which geometry variant a Board carries
type LayoutKind uint8

const (
	LayoutClassic LayoutKind = iota
	LayoutCorridorFunnel
	LayoutFixed
)

var layoutNames = [...]string{
	LayoutClassic:        "classic",
	LayoutCorridorFunnel: "corridor-funnel",
	LayoutFixed:          "fixed-geometry",
}

func (k LayoutKind) String() string {
	if int(k) < len(layoutNames) {
		return layoutNames[k]
	}
	return fmt.Sprintf("layout(%d)", k)
}

// ParseLayoutKind accepts the canonical names plus "corridor" and "fixed"
func ParseLayoutKind(s string) (LayoutKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return LayoutClassic, nil
	case "corridor-funnel", "corridor", "funnel":
		return LayoutCorridorFunnel, nil
	case "fixed-geometry", "fixed", "zigzag":
		return LayoutFixed, nil
	}
	return 0, fmt.Errorf("%w: unknown layout %q", ErrInvalidOptions, s)
}

// Slot is a finish bin, slot spans partition [0, Width)
type Slot struct {
	Index  int
	X0, X1 float64
	Label  string
}

// PegRow is one row of the brick grid, Xs ascending
type PegRow struct {
	Y  float64
	Xs []float64
}

// PegGrid holds peg rows at uniform vertical spacing
type PegGrid struct {
	FirstY     float64
	RowSpacing float64
	Rows       []PegRow
}

// RowsNear returns the half-open row range whose Y lies within reach of y
func (g *PegGrid) RowsNear(y, reach float64) (lo, hi int) {
	if g == nil || len(g.Rows) == 0 {
		return 0, 0
	}
	if g.RowSpacing <= 0 {
		return 0, len(g.Rows)
	}
	lo = int(math.Ceil((y - reach - g.FirstY) / g.RowSpacing))
	hi = int(math.Floor((y+reach-g.FirstY)/g.RowSpacing)) + 1
	lo = vmath.ClampInt(lo, 0, len(g.Rows))
	hi = vmath.ClampInt(hi, lo, len(g.Rows))
	return lo, hi
}

// Count returns the total number of pegs
func (g *PegGrid) Count() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, r := range g.Rows {
		n += len(r.Xs)
	}
	return n
}

// CorridorFunnel is a peg grid bounded by a vertically narrowing corridor
type CorridorFunnel struct {
	CenterX     float64
	TopY        float64 // narrowing starts
	NeckTopY    float64 // narrowest band starts
	NeckBottomY float64 // corridor reopens to full width below
	WideHalf    float64
	NarrowHalf  float64
	Pegs        PegGrid
}

// HalfWidthAt returns the corridor half-width at y
func (c *CorridorFunnel) HalfWidthAt(y float64) float64 {
	switch {
	case y < c.TopY:
		return c.WideHalf
	case y < c.NeckTopY:
		return vmath.Lerp(c.WideHalf, c.NarrowHalf, vmath.Smoothstep(c.TopY, c.NeckTopY, y))
	case y < c.NeckBottomY:
		return c.NarrowHalf
	default:
		return c.WideHalf
	}
}

// Segment is a wall primitive
type Segment struct {
	A, B vmath.Vec2
}

// FixedGeometry is the wall-based layout with rotating paddles
type FixedGeometry struct {
	Segments []Segment
	Index    *SegmentIndex
	Paddles  []Paddle
}

// Paddle is a line segment spinning about its center
type Paddle struct {
	Center          vmath.Vec2
	HalfLength      float64
	HalfThickness   float64
	AngularVelocity float64 // rad/s, positive is clockwise on screen
	Phase           float64
	MaxSurfaceSpeed float64
	Bounce          float64
	Mix             float64
	DownBias        float64
	UpCap           float64
}

// Angle returns the paddle angle at simulated time t
func (p *Paddle) Angle(t float64) float64 {
	return p.Phase + p.AngularVelocity*t
}

// Endpoints returns the paddle tips at simulated time t
func (p *Paddle) Endpoints(t float64) (a, b vmath.Vec2) {
	d := vmath.FromAngle(p.Angle(t)).Scale(p.HalfLength)
	return p.Center.Sub(d), p.Center.Add(d)
}

// Rotor is a spinning circular bumper
type Rotor struct {
	Center          vmath.Vec2
	Radius          float64
	AngularVelocity float64
	MaxSurfaceSpeed float64
	Bounce          float64
	Kick            float64
	Damping         float64
	Mix             float64
	DownBias        float64
	UpCap           float64
}

// Board is immutable after Build
// Exactly one of Grid, Corridor, Fixed is set, matching Kind
type Board struct {
	Name          string
	Width, Height float64
	PegRadius     float64
	MarbleRadius  float64
	FinishY       float64

	// Spawn area for pending marbles, rows stack upward from SpawnY
	DropX      float64
	SpawnY     float64
	SpawnWidth float64

	Kind     LayoutKind
	Grid     *PegGrid
	Corridor *CorridorFunnel
	Fixed    *FixedGeometry

	Rotors []Rotor
	Slots  []Slot
}

// Pegs returns the peg grid of the classic or corridor variant, nil otherwise
func (b *Board) Pegs() *PegGrid {
	switch b.Kind {
	case LayoutClassic:
		return b.Grid
	case LayoutCorridorFunnel:
		if b.Corridor != nil {
			return &b.Corridor.Pegs
		}
	}
	return nil
}

// SlotWidth returns the uniform slot width
func (b *Board) SlotWidth() float64 {
	return b.Width / float64(len(b.Slots))
}

// SlotAt returns the slot index for x, clamped to a valid slot
func (b *Board) SlotAt(x float64) int {
	i := int(math.Floor(x / b.SlotWidth()))
	return vmath.ClampInt(i, 0, len(b.Slots)-1)
}
