package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	noise    *vmath.FastRand
}

// NewOscillator creates a new oscillator for wave generation
// Noise is seeded from freq so a given cue always renders the same samples
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    vmath.NewFastRand(uint32(freq) + 1),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = o.noise.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, zero volume maps to a silent stream
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateFinishTick generates a short blip for one arrival
func CreateFinishTick(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(parameter.FinishTickFrequency, parameter.FinishTickDuration, WaveSine, rate)
	shaped := NewEnvelope(osc, parameter.FinishTickDuration, parameter.FinishTickAttack, parameter.FinishTickRelease, rate)

	return newVolume(shaped, cfg.EffectVolumes[SoundFinish]*cfg.MasterVolume)
}

// CreateWinnerChime generates a two-note rising chime
func CreateWinnerChime(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	n1 := NewOscillator(parameter.WinnerNote1Frequency, parameter.WinnerNoteDuration, WaveSquare, rate)
	n1Shaped := NewEnvelope(n1, parameter.WinnerNoteDuration, parameter.WinnerNoteAttack, parameter.WinnerNote1Release, rate)

	n2 := NewOscillator(parameter.WinnerNote2Frequency, parameter.WinnerNoteDuration, WaveSquare, rate)
	n2Shaped := NewEnvelope(n2, parameter.WinnerNoteDuration, parameter.WinnerNoteAttack, parameter.WinnerNote2Release, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), cfg.EffectVolumes[SoundWinner]*cfg.MasterVolume)
}

// CreateDropWhoosh generates a noise burst for the release
func CreateDropWhoosh(cfg *AudioConfig) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	noise := NewOscillator(0, parameter.DropWhooshDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, parameter.DropWhooshDuration, parameter.DropWhooshAttack, parameter.DropWhooshRelease, rate)

	return newVolume(shaped, cfg.EffectVolumes[SoundDrop]*cfg.MasterVolume)
}

// GetSoundEffect returns the streamer for the given type, nil if unknown
func GetSoundEffect(soundType SoundType, cfg *AudioConfig) beep.Streamer {
	switch soundType {
	case SoundFinish:
		return CreateFinishTick(cfg)
	case SoundWinner:
		return CreateWinnerChime(cfg)
	case SoundDrop:
		return CreateDropWhoosh(cfg)
	default:
		return nil
	}
}
