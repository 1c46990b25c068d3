package parameter

import "time"

// Audio output
const (
	AudioSampleRate   = 44100
	AudioBufferPeriod = 100 * time.Millisecond
)

// Finish tick, one short blip per arrival
const (
	FinishTickFrequency = 1318.51 // E6
	FinishTickDuration  = 40 * time.Millisecond
	FinishTickAttack    = 2 * time.Millisecond
	FinishTickRelease   = 30 * time.Millisecond
)

// Winner chime, two rising notes
const (
	WinnerNote1Frequency = 987.77 // B5
	WinnerNote2Frequency = 1975.53
	WinnerNoteDuration   = 120 * time.Millisecond
	WinnerNoteAttack     = 5 * time.Millisecond
	WinnerNote1Release   = 60 * time.Millisecond
	WinnerNote2Release   = 100 * time.Millisecond
)

// Drop whoosh, filtered noise burst when the queue is released
const (
	DropWhooshDuration = 180 * time.Millisecond
	DropWhooshAttack   = 20 * time.Millisecond
	DropWhooshRelease  = 140 * time.Millisecond
)

// Per-effect mix levels before master volume
const (
	FinishTickVolume  = 0.35
	WinnerChimeVolume = 0.6
	DropWhooshVolume  = 0.25
)
