// Package config loads application settings from the environment and lottery files
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/marble-lottery/parameter"
)

// ErrInvalidConfig reports a setting outside its usable range
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by the marble-lottery commands
// Flags in the commands override these values
type Config struct {
	Seed         uint32  `env:"MARBLE_SEED"           envDefault:"1337"`
	Layout       string  `env:"MARBLE_LAYOUT"         envDefault:"classic"`
	Slots        int     `env:"MARBLE_SLOTS"`
	Lottery      string  `env:"MARBLE_LOTTERY"`
	TickHz       int     `env:"MARBLE_TICK_HZ"        envDefault:"60"`
	DBPath       string  `env:"MARBLE_DB_PATH"        envDefault:"marble-lottery.db"`
	Addr         string  `env:"MARBLE_ADDR"           envDefault:"127.0.0.1:8642"`
	Debug        bool    `env:"MARBLE_DEBUG"`
	AudioEnabled bool    `env:"MARBLE_AUDIO_ENABLED"  envDefault:"true"`
	MasterVolume float64 `env:"MARBLE_MASTER_VOLUME"  envDefault:"0.5"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the commands cannot run with
func (c Config) Validate() error {
	if c.TickHz < 1 || c.TickHz > parameter.MaxTickHz {
		return fmt.Errorf("%w: tick rate %d outside [1, %d]", ErrInvalidConfig, c.TickHz, parameter.MaxTickHz)
	}
	if c.Slots < 0 {
		return fmt.Errorf("%w: slot count %d", ErrInvalidConfig, c.Slots)
	}
	if !(c.MasterVolume >= 0 && c.MasterVolume <= 1) {
		return fmt.Errorf("%w: master volume %g outside [0, 1]", ErrInvalidConfig, c.MasterVolume)
	}
	if c.Layout == "" {
		return fmt.Errorf("%w: empty layout", ErrInvalidConfig)
	}
	return nil
}
