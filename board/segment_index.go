package board

import (
	"math"

	"github.com/lixenwraith/marble-lottery/vmath"
)

// SegmentIndex buckets wall segments by Y so queries only scan nearby walls
// A segment is stored in every bucket its Y extent touches; first records the
// lowest such bucket so multi-bucket queries report each segment once
type SegmentIndex struct {
	MinY         float64
	BucketHeight float64
	Buckets      [][]int32
	first        []int32
}

// NewSegmentIndex indexes segs, bucketHeight <= 0 selects a single bucket
func NewSegmentIndex(segs []Segment, bucketHeight float64) *SegmentIndex {
	ix := &SegmentIndex{
		BucketHeight: bucketHeight,
		first:        make([]int32, len(segs)),
	}
	if len(segs) == 0 {
		ix.BucketHeight = 1
		return ix
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range segs {
		minY = math.Min(minY, math.Min(s.A.Y, s.B.Y))
		maxY = math.Max(maxY, math.Max(s.A.Y, s.B.Y))
	}
	ix.MinY = minY
	if ix.BucketHeight <= 0 {
		ix.BucketHeight = maxY - minY + 1
	}

	count := int((maxY-minY)/ix.BucketHeight) + 1
	ix.Buckets = make([][]int32, count)
	for i, s := range segs {
		b0 := ix.bucket(math.Min(s.A.Y, s.B.Y))
		b1 := ix.bucket(math.Max(s.A.Y, s.B.Y))
		ix.first[i] = int32(b0)
		for b := b0; b <= b1; b++ {
			ix.Buckets[b] = append(ix.Buckets[b], int32(i))
		}
	}
	return ix
}

func (ix *SegmentIndex) bucket(y float64) int {
	return vmath.ClampInt(int((y-ix.MinY)/ix.BucketHeight), 0, len(ix.Buckets)-1)
}

// Query calls fn once for every segment whose bucket range overlaps [y0, y1]
// Callers still run the exact distance test
func (ix *SegmentIndex) Query(y0, y1 float64, fn func(i int)) {
	if len(ix.Buckets) == 0 {
		return
	}
	top := ix.MinY + ix.BucketHeight*float64(len(ix.Buckets))
	if y1 < ix.MinY || y0 > top {
		return
	}
	b0, b1 := ix.bucket(y0), ix.bucket(y1)
	for b := b0; b <= b1; b++ {
		for _, si := range ix.Buckets[b] {
			// Report from the first overlapping bucket only
			if f := int(ix.first[si]); f == b || (b == b0 && f < b0) {
				fn(int(si))
			}
		}
	}
}
