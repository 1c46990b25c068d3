package audio

import (
	"io"
	"log"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/events"
	"github.com/lixenwraith/marble-lottery/parameter"
)

// Player mixes run cues into the speaker
// Every method is safe to call when the device failed to open; playback is then a no-op
type Player struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	mixer       *beep.Mixer
	logger      *log.Logger
	initialized bool
	played      [soundTypeCount]int
}

// NewPlayer creates a player, a nil cfg uses DefaultAudioConfig
func NewPlayer(cfg *AudioConfig, logger *log.Logger) *Player {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{cfg: cfg, mixer: &beep.Mixer{}, logger: logger}
}

// Initialize opens the speaker, disabled configs skip the device entirely
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferPeriod)); err != nil {
		p.logger.Printf("audio disabled: %v", err)
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup drops queued sounds and stops feeding the speaker
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	p.initialized = false
}

// Play queues one effect, returns false when nothing was queued
func (p *Player) Play(t SoundType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return false
	}
	s := GetSoundEffect(t, p.cfg)
	if s == nil {
		return false
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played[t]++
	return true
}

// Played returns how many times t was queued
func (p *Player) Played(t SoundType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t < 0 || t >= soundTypeCount {
		return 0
	}
	return p.played[t]
}

// HandleEvent maps driver events to cues
func (p *Player) HandleEvent(_ *engine.GameState, ev events.GameEvent) {
	switch ev.Type {
	case events.EventDrop:
		p.Play(SoundDrop)
	case events.EventFinish:
		p.Play(SoundFinish)
	case events.EventWinner:
		p.Play(SoundWinner)
	}
}

// EventTypes lists the events the player reacts to
func (p *Player) EventTypes() []events.EventType {
	return []events.EventType{events.EventDrop, events.EventFinish, events.EventWinner}
}
