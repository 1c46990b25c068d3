package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// buildQueue expands counts in catalog order and shuffles the result
// The shuffle uses its own generator from Seed^ShuffleSeedMix so it never
// consumes the live stream that drives spawn jitter
func (s *GameState) buildQueue() ([]string, error) {
	var unknown []string
	for id, n := range s.counts {
		if _, ok := s.catalogIndex[id]; !ok && n > 0 {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, strings.Join(unknown, ", "))
	}

	queue := make([]string, 0, s.TotalSelectedCount())
	for _, e := range s.catalog {
		for i := 0; i < s.counts[e.ID]; i++ {
			queue = append(queue, e.ID)
		}
	}

	shuffle := vmath.NewFastRand(s.Seed ^ parameter.ShuffleSeedMix)
	shuffle.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	return queue, nil
}

// layoutPending places queued marbles in centred rows stacked upward from SpawnY
// Each marble gets a small horizontal jitter from the live RNG
func (s *GameState) layoutPending(queue []string) []*Marble {
	b := s.Board
	r := b.MarbleRadius
	pitch := parameter.SpawnSpacingFactor * r
	cols := int(b.SpawnWidth / pitch)
	if cols < 1 {
		cols = 1
	}
	jitter := parameter.SpawnJitterFactor * r

	marbles := make([]*Marble, len(queue))
	for i, id := range queue {
		row, col := i/cols, i%cols
		inRow := cols
		if rest := len(queue) - row*cols; rest < cols {
			inRow = rest
		}
		x := s.DropX + (float64(col)-float64(inRow-1)/2)*pitch
		x += (s.rng.Float64()*2 - 1) * jitter
		y := b.SpawnY - float64(row)*pitch

		marbles[i] = &Marble{
			ID:       i + 1,
			EntityID: id,
		}
		marbles[i].Radius = r
		marbles[i].Pos = vmath.V(vmath.Clamp(x, r, b.Width-r), y)
	}
	return marbles
}
