// Package audio synthesises run cues with beep and plays them through the speaker
package audio

import "github.com/lixenwraith/marble-lottery/parameter"

// SoundType represents different sound effects
type SoundType int

const (
	SoundFinish SoundType = iota // One marble across the line
	SoundWinner                  // Last arrival
	SoundDrop                    // Queue released
	soundTypeCount
)

var soundNames = [soundTypeCount]string{"finish", "winner", "drop"}

func (t SoundType) String() string {
	if t >= 0 && t < soundTypeCount {
		return soundNames[t]
	}
	return "unknown"
}

// AudioConfig holds playback settings
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64 // 0.0-1.0
	SampleRate    int
	EffectVolumes [soundTypeCount]float64
}

// DefaultAudioConfig returns the default mix
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   parameter.AudioSampleRate,
		EffectVolumes: [soundTypeCount]float64{
			SoundFinish: parameter.FinishTickVolume,
			SoundWinner: parameter.WinnerChimeVolume,
			SoundDrop:   parameter.DropWhooshVolume,
		},
	}
}

// NewAudioConfig returns the default mix with enabled and master volume overridden
// Volume is clamped to [0, 1]
func NewAudioConfig(enabled bool, master float64) *AudioConfig {
	cfg := DefaultAudioConfig()
	cfg.Enabled = enabled
	cfg.MasterVolume = min(max(master, 0), 1)
	return cfg
}
