package engine

import (
	"sort"

	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/physics"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// resolveStatic runs one pass of walls, pegs, paddles and rotors over live marbles
func (s *GameState) resolveStatic() {
	for _, m := range s.Active {
		if m.Done {
			continue
		}
		s.resolveWalls(m)
		s.resolvePegs(m)
		s.resolvePaddles(m)
		s.resolveRotors(m)
	}
}

// resolveWalls dispatches on the layout variant
func (s *GameState) resolveWalls(m *Marble) {
	b := s.Board
	wall := &s.Tuning.Wall
	switch b.Kind {
	case board.LayoutFixed:
		fx := b.Fixed
		fx.Index.Query(m.Pos.Y-m.Radius, m.Pos.Y+m.Radius, func(i int) {
			seg := &fx.Segments[i]
			physics.ResolveSegment(&m.Body, seg.A, seg.B, wall)
		})
	case board.LayoutCorridorFunnel:
		c := b.Corridor
		hw := c.HalfWidthAt(m.Pos.Y)
		physics.ClampX(&m.Body, c.CenterX-hw, c.CenterX+hw, wall)
	}
	physics.ClampX(&m.Body, 0, b.Width, wall)
}

// separateWalls is resolveWalls without velocity response
func (s *GameState) separateWalls(m *Marble) {
	b := s.Board
	switch b.Kind {
	case board.LayoutFixed:
		fx := b.Fixed
		fx.Index.Query(m.Pos.Y-m.Radius, m.Pos.Y+m.Radius, func(i int) {
			seg := &fx.Segments[i]
			physics.SeparateSegment(&m.Body, seg.A, seg.B)
		})
	case board.LayoutCorridorFunnel:
		c := b.Corridor
		hw := c.HalfWidthAt(m.Pos.Y)
		physics.ClampX(&m.Body, c.CenterX-hw, c.CenterX+hw, nil)
	}
	physics.ClampX(&m.Body, 0, b.Width, nil)
}

// resolvePegs scans only rows within reach and, per row, pegs within reach in x
func (s *GameState) resolvePegs(m *Marble) {
	grid := s.Board.Pegs()
	if grid == nil {
		return
	}
	pegR := s.Board.PegRadius
	reach := m.Radius + pegR
	lo, hi := grid.RowsNear(m.Pos.Y, reach)
	for ri := lo; ri < hi; ri++ {
		row := &grid.Rows[ri]
		xs := row.Xs
		j := sort.SearchFloat64s(xs, m.Pos.X-reach)
		for ; j < len(xs) && xs[j] <= m.Pos.X+reach; j++ {
			physics.ResolveCircle(&m.Body, vmath.V(xs[j], row.Y), pegR, &s.Tuning.Peg)
		}
	}
}

// resolvePaddles handles spinning segments of the fixed layout at the current time
func (s *GameState) resolvePaddles(m *Marble) {
	fx := s.Board.Fixed
	if fx == nil {
		return
	}
	for i := range fx.Paddles {
		p := &fx.Paddles[i]
		reach := m.Radius + p.HalfThickness
		bound := p.HalfLength + reach
		if m.Pos.Sub(p.Center).LenSq() >= bound*bound {
			continue
		}
		a, b := p.Endpoints(s.Time)
		q, _ := vmath.ClosestOnSegment(m.Pos, a, b)
		physics.ResolveSpinning(&m.Body, q, p.Center, reach, p.AngularVelocity, &s.paddleSurfaces[i])
	}
}

// resolveRotors handles spinning circles, present on any layout
func (s *GameState) resolveRotors(m *Marble) {
	rotors := s.Board.Rotors
	for i := range rotors {
		r := &rotors[i]
		physics.ResolveSpinning(&m.Body, r.Center, r.Center, m.Radius+r.Radius, r.AngularVelocity, &s.rotorSurfaces[i])
	}
}

// resolvePairs sweeps live marbles sorted by y, ties broken by id
// With respond false only positions are corrected
func (s *GameState) resolvePairs(respond bool) {
	order := s.order[:0]
	maxR := 0.0
	for _, m := range s.Active {
		if m.Done {
			continue
		}
		order = append(order, m)
		maxR = max(maxR, m.Radius)
	}
	s.order = order
	if len(order) < 2 {
		return
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Pos.Y != order[j].Pos.Y {
			return order[i].Pos.Y < order[j].Pos.Y
		}
		return order[i].ID < order[j].ID
	})

	e := s.Tuning.MarbleRestitution
	for i, a := range order {
		limit := a.Radius + maxR
		for _, b := range order[i+1:] {
			if b.Pos.Y-a.Pos.Y > limit {
				break
			}
			dx := b.Pos.X - a.Pos.X
			if dx > limit || dx < -limit {
				continue
			}
			if respond {
				physics.ResolvePair(&a.Body, &b.Body, e)
			} else {
				physics.SeparatePair(&a.Body, &b.Body)
			}
		}
	}
}
