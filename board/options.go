package board

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// ErrInvalidOptions reports structurally unusable board options
var ErrInvalidOptions = errors.New("invalid board options")

// Options configures Build, zero values select defaults from parameter
type Options struct {
	Name          string
	Width, Height float64
	Layout        LayoutKind

	SlotCount  int
	SlotLabels []string
	SlotBand   float64

	PegRows, PegCols int
	PegRadius        float64
	MarbleRadius     float64

	// NoPegs builds the classic or corridor layout without a peg grid
	NoPegs bool

	// BucketHeight tunes the wall spatial index
	BucketHeight float64

	Corridor CorridorOptions

	// Fixed holds authored geometry; when nil a fixed layout is generated from ZigZag
	Fixed  *FixedLayout
	ZigZag ZigZagOptions

	// Rotors, when non-nil, replaces generated rotors; invalid entries are skipped
	Rotors []RotorSpec
}

// CorridorOptions are fractions of world height (Y) and width (Narrow)
type CorridorOptions struct {
	TopFraction        float64 `toml:"top"`
	NeckTopFraction    float64 `toml:"neck_top"`
	NeckBottomFraction float64 `toml:"neck_bottom"`
	NarrowFraction     float64 `toml:"narrow"`
}

// withDefaults returns a copy with zero values replaced and rejects unusable values
func (o Options) withDefaults() (Options, error) {
	for _, v := range []float64{o.Width, o.Height, o.SlotBand, o.PegRadius, o.MarbleRadius, o.BucketHeight} {
		if !vmath.IsFinite(v) {
			return o, fmt.Errorf("%w: non-finite size %g", ErrInvalidOptions, v)
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return o, fmt.Errorf("%w: negative world size %gx%g", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.Width == 0 {
		o.Width = parameter.DefaultWorldWidth
	}
	if o.Height == 0 {
		o.Height = parameter.DefaultWorldHeight
	}

	if o.SlotCount < 0 {
		return o, fmt.Errorf("%w: slot count %d", ErrInvalidOptions, o.SlotCount)
	}
	if o.SlotCount == 0 {
		o.SlotCount = len(o.SlotLabels)
		if o.SlotCount == 0 {
			o.SlotCount = parameter.DefaultSlotCount
		}
	}
	if len(o.SlotLabels) > 0 && len(o.SlotLabels) != o.SlotCount {
		return o, fmt.Errorf("%w: %d slot labels for %d slots", ErrInvalidOptions, len(o.SlotLabels), o.SlotCount)
	}

	if o.SlotBand <= 0 {
		o.SlotBand = parameter.DefaultSlotBand
	}
	if o.SlotBand >= o.Height {
		return o, fmt.Errorf("%w: slot band %g exceeds height %g", ErrInvalidOptions, o.SlotBand, o.Height)
	}

	if o.PegRows < 0 || o.PegCols < 0 {
		return o, fmt.Errorf("%w: peg grid %dx%d", ErrInvalidOptions, o.PegRows, o.PegCols)
	}
	if o.PegRows == 0 {
		o.PegRows = parameter.DefaultPegRows
	}
	if o.PegCols == 0 {
		o.PegCols = parameter.DefaultPegCols
	}
	if o.PegRadius <= 0 {
		o.PegRadius = parameter.DefaultPegRadius
	}
	if o.MarbleRadius <= 0 {
		o.MarbleRadius = parameter.DefaultMarbleRadius
	}
	if o.BucketHeight <= 0 {
		o.BucketHeight = parameter.DefaultBucketHeight
	}

	c := &o.Corridor
	if c.TopFraction <= 0 {
		c.TopFraction = parameter.CorridorTopFraction
	}
	if c.NeckTopFraction <= 0 {
		c.NeckTopFraction = parameter.CorridorNeckTopFraction
	}
	if c.NeckBottomFraction <= 0 {
		c.NeckBottomFraction = parameter.CorridorNeckBottomFraction
	}
	if c.NarrowFraction <= 0 {
		c.NarrowFraction = parameter.CorridorNarrowFraction
	}
	if c.NarrowFraction > 0.5 {
		return o, fmt.Errorf("%w: corridor narrow fraction %g above 0.5", ErrInvalidOptions, c.NarrowFraction)
	}
	if !(c.TopFraction <= c.NeckTopFraction && c.NeckTopFraction <= c.NeckBottomFraction && c.NeckBottomFraction < 1) {
		return o, fmt.Errorf("%w: corridor fractions out of order", ErrInvalidOptions)
	}

	o.PegCols, o.PegRows = fitPegGrid(o)
	return o, nil
}
