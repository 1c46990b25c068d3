package board

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lixenwraith/marble-lottery/parameter"
)

// Build resolves options into an immutable Board
// It is a pure function of opts and never consumes randomness
func Build(opts Options) (*Board, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	b := &Board{
		Name:         o.Name,
		Width:        o.Width,
		Height:       o.Height,
		PegRadius:    o.PegRadius,
		MarbleRadius: o.MarbleRadius,
		FinishY:      o.Height - o.SlotBand,
		Kind:         o.Layout,
		DropX:        o.Width / 2,
		SpawnWidth:   o.Width * parameter.SpawnWidthFraction,
		Slots:        buildSlots(o),
	}

	switch o.Layout {
	case LayoutClassic:
		grid := buildPegGrid(o, b.FinishY, nil)
		b.Grid = &grid
		b.SpawnY = o.Height*parameter.PegTopFraction - 3*o.MarbleRadius

	case LayoutCorridorFunnel:
		cf := newCorridor(o)
		cf.Pegs = buildPegGrid(o, b.FinishY, cf)
		b.Corridor = cf
		b.SpawnY = o.Height*parameter.PegTopFraction - 3*o.MarbleRadius
		b.SpawnWidth = math.Min(b.SpawnWidth, 2*cf.WideHalf-4*o.MarbleRadius)

	case LayoutFixed:
		var fb fixedBuild
		if o.Fixed != nil {
			fb, err = buildAuthored(o, o.Fixed)
		} else {
			fb, err = buildZigZag(o, b.FinishY)
		}
		if err != nil {
			return nil, err
		}
		b.Fixed = &FixedGeometry{
			Segments: fb.segments,
			Index:    NewSegmentIndex(fb.segments, o.BucketHeight),
			Paddles:  fb.paddles,
		}
		b.Rotors = fb.rotors
		b.DropX, b.SpawnY, b.SpawnWidth = fb.dropX, fb.spawnY, fb.spawnWidth

	default:
		return nil, fmt.Errorf("%w: layout %v", ErrInvalidOptions, o.Layout)
	}

	if o.Rotors != nil {
		b.Rotors = ResolveRotors(o.Rotors, o.Width, o.Height)
	}
	return b, nil
}

// buildSlots partitions [0, Width) into equal slots, the last one closes exactly at Width
func buildSlots(o Options) []Slot {
	slots := make([]Slot, o.SlotCount)
	w := o.Width / float64(o.SlotCount)
	for i := range slots {
		label := strconv.Itoa(i + 1)
		if len(o.SlotLabels) > 0 {
			label = o.SlotLabels[i]
		}
		slots[i] = Slot{
			Index: i,
			X0:    float64(i) * w,
			X1:    float64(i+1) * w,
			Label: label,
		}
	}
	slots[len(slots)-1].X1 = o.Width
	return slots
}
