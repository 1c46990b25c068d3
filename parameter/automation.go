package parameter

// Automation driver
const (
	// DefaultTickHz is the fixed simulation step rate
	DefaultTickHz = 60
	MaxTickHz     = 1000

	// MaxAdvanceMs bounds one Advance call so a stalled caller cannot queue minutes of simulation
	MaxAdvanceMs = 10_000.0

	// DefaultRunStepBudget is the step cap of headless runs, ten simulated minutes at DefaultTickHz
	DefaultRunStepBudget = 10 * 60 * DefaultTickHz
)

// Event bus
const (
	// EventQueueInitialCap sizes a fresh backlog, one start, one drop and a typical batch of finishes
	EventQueueInitialCap = 32
)
