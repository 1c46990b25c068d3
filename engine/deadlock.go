package engine

import (
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// watchAll runs the stuck monitor once per live marble
func (s *GameState) watchAll() {
	if s.Tuning.Deadlock.Disabled {
		return
	}
	for _, m := range s.Active {
		if !m.Done {
			s.watch(m)
		}
	}
}

// watch accumulates the observation window and evaluates it when it closes
// A marble is nudged when, over a full window after the grace period, it made less than
// MinProgress net downward movement, stayed within MaxRange vertically and never
// exceeded SpeedCeiling, and its last nudge is at least Cooldown ago
func (s *GameState) watch(m *Marble) {
	d := &s.Tuning.Deadlock
	now := s.Time
	y := m.Pos.Y

	if now-m.releasedAt < d.Grace {
		m.resetWindow(now)
		return
	}

	m.windowMinY = math.Min(m.windowMinY, y)
	m.windowMaxY = math.Max(m.windowMaxY, y)
	m.windowSpeed = math.Max(m.windowSpeed, m.Speed())
	if now-m.windowStart < d.Window {
		return
	}

	stuck := y-m.windowStartY < d.MinProgress &&
		m.windowMaxY-m.windowMinY < d.MaxRange &&
		m.windowSpeed < d.SpeedCeiling &&
		now-m.lastNudge >= d.Cooldown
	if stuck {
		s.nudge(m)
	}
	m.resetWindow(now)
}

// nudge applies the escalating deterministic kick
// Velocity alone can be cancelled by the same sub-step's wall push, so the marble is also moved down
func (s *GameState) nudge(m *Marble) {
	d := &s.Tuning.Deadlock
	level := float64(min(m.stuckCount, d.EscalationCap))

	m.Vel.X = nudgeSign(m.ID, m.stuckCount) * (d.LateralSpeed + d.LateralStep*level)
	m.Vel.Y = math.Max(m.Vel.Y, d.MinDownSpeed+d.DownStep*level)
	m.Pos.Y += d.DropFactor * m.Radius

	m.stuckCount++
	m.lastNudge = s.Time
}

// nudgeSign derives a stable lateral direction from the marble id, alternating per repeat
func nudgeSign(id, repeat int) float64 {
	bit := xxhash.Sum64String(strconv.Itoa(id))&1 != 0
	if repeat%2 == 1 {
		bit = !bit
	}
	if bit {
		return 1
	}
	return -1
}

func (m *Marble) resetWindow(now float64) {
	y := m.Pos.Y
	m.windowStart = now
	m.windowStartY = y
	m.windowMinY = y
	m.windowMaxY = y
	m.windowSpeed = m.Speed()
}

// StuckCount returns how many times the marble was nudged
func (m *Marble) StuckCount() int {
	return m.stuckCount
}
