package engine

import (
	"math"

	"github.com/lixenwraith/marble-lottery/physics"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// Step advances the simulation by dt seconds, split into sub-steps
// It is a no-op unless running, and once a winner is set no further sub-steps run
func (s *GameState) Step(dt float64) {
	if s.Mode != ModeRunning || s.Winner != nil || !(dt > 0) || math.IsInf(dt, 1) {
		return
	}

	n := s.subSteps(dt)
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		s.Time += h
		s.integrate(h)
		for it := 0; it < s.Tuning.ResolveIterations; it++ {
			s.resolveStatic()
			s.resolvePairs(true)
		}
		s.containAll()
		s.watchAll()
		if s.checkWinner() {
			return
		}
	}
}

// subSteps picks the sub-step count so a marble moves at most SubStepTarget radii per sub-step
func (s *GameState) subSteps(dt float64) int {
	t := &s.Tuning
	maxSpeed := 0.0
	minR := math.Inf(1)
	for _, m := range s.Active {
		if m.Done {
			continue
		}
		maxSpeed = math.Max(maxSpeed, m.Speed())
		minR = math.Min(minR, m.Radius)
	}
	if math.IsInf(minR, 1) || minR <= 0 || t.SubStepTarget <= 0 {
		return 1
	}
	maxDisp := (maxSpeed + t.Gravity*dt) * dt
	n := int(math.Ceil(maxDisp / (t.SubStepTarget * minR)))
	return vmath.ClampInt(n, 1, max(1, t.MaxSubSteps))
}

// integrate moves every live marble and records finish-line crossings
func (s *GameState) integrate(h float64) {
	t := &s.Tuning
	finishY := s.Board.FinishY
	for _, m := range s.Active {
		if m.Done {
			continue
		}
		physics.Integrate(&m.Body, t.Gravity, t.DragX, t.DragY, t.MaxSpeed, h)
		if m.Pos.Y+m.Radius >= finishY {
			s.finish(m)
		}
	}
}

// containAll enforces r <= x <= Width-r after resolution, position only
func (s *GameState) containAll() {
	w := s.Board.Width
	for _, m := range s.Active {
		if !m.Done {
			physics.ClampX(&m.Body, 0, w, nil)
		}
	}
}

// settle runs position-only wall and overlap passes after a mass release
func (s *GameState) settle() {
	for it := 0; it < s.Tuning.SettleIterations; it++ {
		for _, m := range s.Active {
			if !m.Done {
				s.separateWalls(m)
			}
		}
		s.resolvePairs(false)
	}
	s.containAll()
}
