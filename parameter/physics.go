package parameter

// Integration
const (
	// Gravity is the downward acceleration in world units/s²
	Gravity = 900.0

	// AirDragX and AirDragY are per-second velocity loss fractions; multiplier per sub-step is 1 - drag*h
	AirDragX = 0.6
	AirDragY = 0.12

	// MaxSpeed caps marble speed so a capped sub-step never crosses a marble radius
	MaxSpeed = 1500.0
)

// Sub-stepping
const (
	// MaxSubSteps bounds per-step cost when marbles move fast
	MaxSubSteps = 6

	// SubStepTargetFactor scales the smallest marble radius into the target per-sub-step displacement
	SubStepTargetFactor = 0.45

	// ResolveIterations is the number of full collision passes per sub-step
	ResolveIterations = 2

	// SettleIterations is the number of position-only passes run by DropAll
	SettleIterations = 6
)

// Static contacts
const (
	WallRestitution = 0.26

	// WallTangentDamping applies to tangential velocity on wall contact
	WallTangentDamping = 0.02
	// WallTangentDampingDown applies instead when sliding downward along the wall
	WallTangentDampingDown = 0.004

	PegRestitution    = 0.42
	PegTangentDamping = 0.03
	MarbleRestitution = 0.35
)

// Paddles
const (
	PaddleHalfLength      = 60.0
	PaddleHalfThickness   = 4.0
	PaddleAngularVelocity = 2.4 // rad/s
	PaddleMaxSurfaceSpeed = 420.0
	PaddleBounce          = 0.55
	PaddleMix             = 0.18
	PaddleDownBias        = 12.0
	PaddleUpCap           = 520.0
)

// Rotors
const (
	RotorRadius          = 26.0
	RotorAngularVelocity = 3.2 // rad/s
	RotorMaxSurfaceSpeed = 360.0
	RotorBounce          = 0.5
	RotorKick            = 40.0
	RotorDamping         = 0.08
	RotorMix             = 0.22
	RotorDownBias        = 18.0
	RotorUpCap           = 480.0
)
