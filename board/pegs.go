package board

import (
	"math"

	"github.com/lixenwraith/marble-lottery/parameter"
)

// buildPegGrid places pegs on a brick pattern, odd rows shifted half a column
// Pegs that would leave a wall gap narrower than PegWallMarginFactor radii are dropped;
// with a corridor, pegs outside the corridor at their row are dropped too
// Empty rows are kept so row spacing stays uniform for RowsNear
func buildPegGrid(o Options, finishY float64, cf *CorridorFunnel) PegGrid {
	if o.NoPegs || o.PegRows == 0 || o.PegCols == 0 {
		return PegGrid{}
	}

	top := o.Height * parameter.PegTopFraction
	bottom := finishY - parameter.PegBottomMargin
	if bottom < top {
		bottom = top
	}

	var spacing float64
	if o.PegRows > 1 {
		spacing = (bottom - top) / float64(o.PegRows-1)
	}
	colW := o.Width / float64(o.PegCols)
	margin := o.PegRadius + parameter.PegWallMarginFactor*o.MarbleRadius

	grid := PegGrid{
		FirstY:     top,
		RowSpacing: spacing,
		Rows:       make([]PegRow, o.PegRows),
	}
	for r := range grid.Rows {
		y := top + float64(r)*spacing
		offset := 0.0
		if r%2 == 0 {
			offset = colW / 2
		}

		lo, hi := margin, o.Width-margin
		if cf != nil {
			hw := cf.HalfWidthAt(y)
			lo = math.Max(lo, cf.CenterX-hw+margin)
			hi = math.Min(hi, cf.CenterX+hw-margin)
		}

		xs := make([]float64, 0, o.PegCols+1)
		for c := 0; c <= o.PegCols; c++ {
			x := offset + float64(c)*colW
			if x < lo || x > hi {
				continue
			}
			xs = append(xs, x)
		}
		grid.Rows[r] = PegRow{Y: y, Xs: xs}
	}
	return grid
}

// fitPegGrid caps columns, then rows, so every gap between neighbouring pegs
// leaves PegWallMarginFactor marble radii free
func fitPegGrid(o Options) (cols, rows int) {
	cols, rows = o.PegCols, o.PegRows
	if cols == 0 || rows == 0 {
		return cols, rows
	}
	pitch := 2*o.PegRadius + parameter.PegWallMarginFactor*o.MarbleRadius

	cols = min(cols, max(1, int(o.Width/pitch)))

	// Neighbours across rows sit half a column apart horizontally
	halfCol := o.Width / float64(cols) / 2
	minSpacing := pitch / 2
	if pitch > halfCol {
		minSpacing = math.Max(minSpacing, math.Sqrt(pitch*pitch-halfCol*halfCol))
	}
	top := o.Height * parameter.PegTopFraction
	span := math.Max(0, o.Height-o.SlotBand-parameter.PegBottomMargin-top)
	rows = min(rows, 1+int(span/minSpacing))
	return cols, rows
}

func newCorridor(o Options) *CorridorFunnel {
	c := o.Corridor
	return &CorridorFunnel{
		CenterX:     o.Width / 2,
		TopY:        o.Height * c.TopFraction,
		NeckTopY:    o.Height * c.NeckTopFraction,
		NeckBottomY: o.Height * c.NeckBottomFraction,
		WideHalf:    o.Width / 2,
		NarrowHalf:  o.Width * c.NarrowFraction,
	}
}
