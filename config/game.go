package config

import (
	"fmt"

	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/engine"
)

// DefaultEntities is the lottery used when no file or entity list is given
const DefaultEntities = "red:3,blue:3,green:3"

// ResolveLottery loads c.Lottery when set, otherwise parses entities
// An empty list falls back to DefaultEntities
func (c Config) ResolveLottery(entities string) (*Lottery, error) {
	if c.Lottery != "" {
		return LoadLottery(c.Lottery)
	}
	if entities == "" {
		entities = DefaultEntities
	}
	return ParseEntityList(entities)
}

// NewGame builds the board and an idle state with the lottery counts applied
// The lottery's seed, layout and slots take precedence over c
func NewGame(c Config, l *Lottery) (*engine.GameState, error) {
	lc := *l
	if lc.Slots == 0 {
		lc.Slots = c.Slots
	}
	opts, err := lc.BoardOptions(c.Layout)
	if err != nil {
		return nil, fmt.Errorf("resolve layout: %w", err)
	}
	b, err := board.Build(opts)
	if err != nil {
		return nil, fmt.Errorf("build board: %w", err)
	}

	seed := c.Seed
	if l.Seed != nil {
		seed = *l.Seed
	}
	s := engine.NewGameState(seed, b, l.Catalog())
	l.Apply(s)
	return s, nil
}
