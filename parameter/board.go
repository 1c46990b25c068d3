package parameter

// World defaults
const (
	DefaultWorldWidth   = 900.0
	DefaultWorldHeight  = 1600.0
	DefaultSlotCount    = 8
	DefaultSlotBand     = 120.0
	DefaultMarbleRadius = 9.0
	DefaultPegRadius    = 5.0
	DefaultPegRows      = 18
	DefaultPegCols      = 18

	// DefaultBucketHeight is the Y span of one wall spatial index bucket
	DefaultBucketHeight = 260.0
)

// Peg grid placement
const (
	// PegTopFraction is the first peg row as a fraction of world height
	PegTopFraction = 0.12

	// PegBottomMargin keeps the last peg row above the finish line
	PegBottomMargin = 40.0

	// PegWallMarginFactor is the free gap required between a peg and a wall, in marble radii
	PegWallMarginFactor = 2.4
)

// Corridor funnel profile, fractions of world height and width
const (
	CorridorTopFraction        = 0.18
	CorridorNeckTopFraction    = 0.55
	CorridorNeckBottomFraction = 0.70
	CorridorNarrowFraction     = 0.20
)

// Zig-zag generator
const (
	ZigZagTopFraction = 0.10
	ZigZagSlopeDeg    = 14.0

	// ZigZagGapFactor is the drop gap width in marble radii
	ZigZagGapFactor = 14.5

	// ZigZagClearanceFactor is the minimum vertical clearance between stacked shelves, in marble radii
	ZigZagClearanceFactor = 10.0

	// ZigZagObstacleClearanceFactor keeps rotor and paddle surfaces this many radii off the shelf below
	ZigZagObstacleClearanceFactor = 2.2
)

// Spawn layout
const (
	// SpawnSpacingFactor is the pending grid pitch in marble radii
	SpawnSpacingFactor = 2.2

	// SpawnJitterFactor is the max horizontal jitter in marble radii
	SpawnJitterFactor = 0.25

	// SpawnWidthFraction is the default spawn band width as a fraction of world width
	SpawnWidthFraction = 0.6
)

// Selection
const (
	MaxEntityCount = 99

	// ShuffleSeedMix decorrelates the queue shuffle from the live jitter stream
	ShuffleSeedMix uint32 = 0x9e3779b9
)
