package parameter

// Stuck detection, all times in simulated seconds and distances in world units
const (
	// StuckGracePeriod is the time after release before a marble is observed
	StuckGracePeriod = 1.2

	// StuckWindow is the observation window length
	StuckWindow = 0.9

	// StuckMinProgress is the net downward movement per window below which a marble may be stuck
	StuckMinProgress = 6.0

	// StuckMaxRange is the Y range per window above which the marble is bouncing, not stuck
	StuckMaxRange = 22.0

	// StuckSpeedCeiling excludes fast marbles from nudging
	StuckSpeedCeiling = 160.0
)

// Nudge response
const (
	// NudgeCooldown is the minimum time between nudges of one marble
	NudgeCooldown = 2.5

	NudgeLateralSpeed = 120.0
	NudgeLateralStep  = 30.0

	// NudgeMinDownSpeed is the forced downward speed of the first nudge, NudgeDownStep is added per repeat
	NudgeMinDownSpeed = 140.0
	NudgeDownStep     = 60.0

	// NudgeEscalationCap limits how many repeats escalate the nudge
	NudgeEscalationCap = 6

	// NudgeDropFactor is the direct downward offset in marble radii
	NudgeDropFactor = 0.35
)
