package engine

import (
	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/physics"
)

// Tuning holds the integrator and contact constants of one GameState
// NewGameState fills it from parameter; callers may adjust it before StartGame
type Tuning struct {
	Gravity  float64
	DragX    float64
	DragY    float64
	MaxSpeed float64

	MaxSubSteps       int
	SubStepTarget     float64 // Fraction of the smallest radius moved per sub-step
	ResolveIterations int
	SettleIterations  int

	Wall              physics.ContactProfile
	Peg               physics.ContactProfile
	MarbleRestitution float64

	Deadlock DeadlockTuning
}

// DeadlockTuning configures the stuck monitor, times in simulated seconds
type DeadlockTuning struct {
	Disabled     bool
	Grace        float64
	Window       float64
	MinProgress  float64
	MaxRange     float64
	SpeedCeiling float64
	Cooldown     float64

	LateralSpeed  float64
	LateralStep   float64
	MinDownSpeed  float64
	DownStep      float64
	EscalationCap int
	DropFactor    float64
}

// DefaultTuning returns the production constants
func DefaultTuning() Tuning {
	return Tuning{
		Gravity:  parameter.Gravity,
		DragX:    parameter.AirDragX,
		DragY:    parameter.AirDragY,
		MaxSpeed: parameter.MaxSpeed,

		MaxSubSteps:       parameter.MaxSubSteps,
		SubStepTarget:     parameter.SubStepTargetFactor,
		ResolveIterations: parameter.ResolveIterations,
		SettleIterations:  parameter.SettleIterations,

		Wall:              physics.Wall,
		Peg:               physics.Peg,
		MarbleRestitution: parameter.MarbleRestitution,

		Deadlock: DeadlockTuning{
			Grace:        parameter.StuckGracePeriod,
			Window:       parameter.StuckWindow,
			MinProgress:  parameter.StuckMinProgress,
			MaxRange:     parameter.StuckMaxRange,
			SpeedCeiling: parameter.StuckSpeedCeiling,
			Cooldown:     parameter.NudgeCooldown,

			LateralSpeed:  parameter.NudgeLateralSpeed,
			LateralStep:   parameter.NudgeLateralStep,
			MinDownSpeed:  parameter.NudgeMinDownSpeed,
			DownStep:      parameter.NudgeDownStep,
			EscalationCap: parameter.NudgeEscalationCap,
			DropFactor:    parameter.NudgeDropFactor,
		},
	}
}
