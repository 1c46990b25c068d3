package engine

import (
	"strconv"

	"github.com/lixenwraith/marble-lottery/vmath"
)

// finish records m's arrival once and parks it in its slot
func (s *GameState) finish(m *Marble) {
	if m.Result != nil {
		return
	}
	b := s.Board
	slot := b.SlotAt(m.Pos.X)
	order := len(s.Finished) + 1
	label := b.Slots[slot].Label
	if len(b.Slots) == 1 {
		label = strconv.Itoa(order)
	}

	m.Result = &MarbleResult{Slot: slot, Label: label, Order: order}
	s.Finished = append(s.Finished, FinishRecord{
		MarbleID: m.ID,
		EntityID: m.EntityID,
		T:        s.Time,
		Slot:     slot,
		Label:    label,
	})
	m.Freeze(s.packedPosition(slot, m.Radius))
	m.Done = true
}

// packedPosition returns the next resting spot in slot: rows fill left to right
// from the bottom of the world and overflow upward
func (s *GameState) packedPosition(slot int, r float64) vmath.Vec2 {
	b := s.Board
	sl := b.Slots[slot]
	d := 2 * r
	cols := max(1, int((sl.X1-sl.X0)/d))

	k := s.slotFill[slot]
	s.slotFill[slot]++
	row, col := k/cols, k%cols

	x := vmath.Clamp(sl.X0+r+float64(col)*d, r, b.Width-r)
	y := b.Height - r - float64(row)*d
	return vmath.V(x, y)
}

// checkWinner sets the winner once every dropped marble has finished
// The winner is the first record with the latest arrival time
func (s *GameState) checkWinner() bool {
	if s.Winner != nil {
		return true
	}
	if !s.Released || s.TotalToDrop == 0 || len(s.Finished) != s.TotalToDrop {
		return false
	}
	best := 0
	for i := 1; i < len(s.Finished); i++ {
		if s.Finished[i].T > s.Finished[best].T {
			best = i
		}
	}
	w := s.Finished[best]
	s.Winner = &w
	return true
}
