package engine

// MarbleSnapshot is the kinematic state of one marble
type MarbleSnapshot struct {
	ID     int     `json:"id"`
	Entity string  `json:"entity"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Done   bool    `json:"done"`
	Slot   int     `json:"slot"` // -1 until finished
	Label  string  `json:"label,omitempty"`
	Nudges int     `json:"nudges,omitempty"`
}

// TextSnapshot is a read-only, JSON-serialisable dump for automation and debugging
type TextSnapshot struct {
	Mode     string           `json:"mode"`
	Time     float64          `json:"time"`
	Seed     uint32           `json:"seed"`
	Board    string           `json:"board"`
	Layout   string           `json:"layout"`
	Counts   map[string]int   `json:"counts"`
	Total    int              `json:"total"`
	Pending  int              `json:"pending"`
	Active   int              `json:"active"`
	Finished int              `json:"finished"`
	Winner   *FinishRecord    `json:"winner"`
	Results  []FinishRecord   `json:"results"`
	Marbles  []MarbleSnapshot `json:"marbles"`
}

// SnapshotForText copies the observable state, it never mutates s
func (s *GameState) SnapshotForText() TextSnapshot {
	snap := TextSnapshot{
		Mode:     s.Mode.String(),
		Time:     s.Time,
		Seed:     s.Seed,
		Board:    s.Board.Name,
		Layout:   s.Board.Kind.String(),
		Counts:   s.Counts(),
		Total:    s.TotalToDrop,
		Pending:  len(s.Pending),
		Active:   s.Live(),
		Finished: len(s.Finished),
		Results:  make([]FinishRecord, len(s.Finished)),
		Marbles:  make([]MarbleSnapshot, 0, len(s.Pending)+len(s.Active)),
	}
	copy(snap.Results, s.Finished)
	if s.Winner != nil {
		w := *s.Winner
		snap.Winner = &w
	}
	if snap.Total == 0 && s.Mode == ModeIdle {
		snap.Total = s.TotalSelectedCount()
	}

	add := func(m *Marble) {
		ms := MarbleSnapshot{
			ID:     m.ID,
			Entity: m.EntityID,
			X:      m.Pos.X,
			Y:      m.Pos.Y,
			VX:     m.Vel.X,
			VY:     m.Vel.Y,
			Done:   m.Done,
			Slot:   -1,
			Nudges: m.stuckCount,
		}
		if m.Result != nil {
			ms.Slot = m.Result.Slot
			ms.Label = m.Result.Label
		}
		snap.Marbles = append(snap.Marbles, ms)
	}
	for _, m := range s.Pending {
		add(m)
	}
	for _, m := range s.Active {
		add(m)
	}
	return snap
}
