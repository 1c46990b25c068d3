// Package engine runs the deterministic marble lottery simulation
//
// A GameState is owned by a single caller and advanced only through Step;
// identical seed, board, counts and dt sequence reproduce identical results
package engine

import (
	"errors"
	"math"

	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/parameter"
	"github.com/lixenwraith/marble-lottery/physics"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// ErrUnknownEntity reports a selected count for an id missing from the catalog
var ErrUnknownEntity = errors.New("unknown entity type")

// Mode is the run lifecycle state
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeRunning
)

func (m Mode) String() string {
	if m == ModeRunning {
		return "running"
	}
	return "idle"
}

// EntityType is one lottery participant kind
type EntityType struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// MarbleResult is set exactly once when a marble crosses the finish line
type MarbleResult struct {
	Slot  int
	Label string
	Order int // 1-based arrival order
}

// Marble is one simulated token
type Marble struct {
	ID       int
	EntityID string
	physics.Body

	Done   bool
	Result *MarbleResult

	// Stuck monitor window
	releasedAt   float64
	windowStart  float64
	windowStartY float64
	windowMinY   float64
	windowMaxY   float64
	windowSpeed  float64 // Peak speed in window
	lastNudge    float64
	stuckCount   int
}

// FinishRecord is appended once per marble in arrival order
type FinishRecord struct {
	MarbleID int     `json:"marble_id"`
	EntityID string  `json:"entity_id"`
	T        float64 `json:"t"`
	Slot     int     `json:"slot"`
	Label    string  `json:"label"`
}

// GameState is the mutable simulation aggregate
type GameState struct {
	// ===== CONFIGURATION (kept across runs) =====

	Board  *board.Board
	Seed   uint32
	Tuning Tuning
	DropX  float64

	catalog      []EntityType
	catalogIndex map[string]int
	counts       map[string]int

	// ===== RUN STATE (cleared by StartGame and ResetGame) =====

	Mode        Mode
	Time        float64 // Simulated seconds since StartGame
	Released    bool
	TotalToDrop int

	Pending  []*Marble
	Active   []*Marble
	Finished []FinishRecord
	Winner   *FinishRecord

	rng      *vmath.FastRand
	slotFill []int

	// Per-board derived data
	paddleSurfaces []physics.SurfaceProfile
	rotorSurfaces  []physics.SurfaceProfile

	// Scratch for the pair sweep
	order []*Marble
}

// NewGameState creates an idle state for board b
// Catalog order fixes the queue expansion order; duplicate ids keep the first entry
func NewGameState(seed uint32, b *board.Board, catalog []EntityType) *GameState {
	s := &GameState{
		Board:        b,
		Seed:         seed,
		Tuning:       DefaultTuning(),
		DropX:        b.DropX,
		catalogIndex: make(map[string]int, len(catalog)),
		counts:       make(map[string]int),
		rng:          vmath.NewFastRand(seed),
		slotFill:     make([]int, len(b.Slots)),
	}
	for _, e := range catalog {
		if _, dup := s.catalogIndex[e.ID]; dup {
			continue
		}
		s.catalogIndex[e.ID] = len(s.catalog)
		s.catalog = append(s.catalog, e)
	}
	if b.Fixed != nil {
		for i := range b.Fixed.Paddles {
			s.paddleSurfaces = append(s.paddleSurfaces, physics.PaddleSurface(&b.Fixed.Paddles[i]))
		}
	}
	for i := range b.Rotors {
		s.rotorSurfaces = append(s.rotorSurfaces, physics.RotorSurface(&b.Rotors[i]))
	}
	return s
}

// Catalog returns a copy of the entity catalog
func (s *GameState) Catalog() []EntityType {
	out := make([]EntityType, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Entity looks up a catalog entry
func (s *GameState) Entity(id string) (EntityType, bool) {
	i, ok := s.catalogIndex[id]
	if !ok {
		return EntityType{}, false
	}
	return s.catalog[i], true
}

// EntityIndex returns the catalog position of id, -1 if absent
func (s *GameState) EntityIndex(id string) int {
	if i, ok := s.catalogIndex[id]; ok {
		return i
	}
	return -1
}

// SetEntityCount sets the selected count of id, clamped to [0, MaxEntityCount]
// Ids are not validated here; StartGame rejects counts for ids outside the catalog
func (s *GameState) SetEntityCount(id string, n int) {
	n = vmath.ClampInt(n, 0, parameter.MaxEntityCount)
	if n == 0 {
		delete(s.counts, id)
		return
	}
	s.counts[id] = n
}

// SetEntityCountFloat clamps a possibly fractional or non-finite count, truncating toward zero
func (s *GameState) SetEntityCountFloat(id string, f float64) {
	switch {
	case math.IsNaN(f) || f < 0:
		s.SetEntityCount(id, 0)
	case f > parameter.MaxEntityCount:
		s.SetEntityCount(id, parameter.MaxEntityCount)
	default:
		s.SetEntityCount(id, int(f))
	}
}

// EntityCount returns the selected count of id
func (s *GameState) EntityCount(id string) int {
	return s.counts[id]
}

// TotalSelectedCount sums all selected counts
func (s *GameState) TotalSelectedCount() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Counts returns a copy of the selected counts
func (s *GameState) Counts() map[string]int {
	out := make(map[string]int, len(s.counts))
	for id, n := range s.counts {
		out[id] = n
	}
	return out
}

// SetDropX moves the spawn anchor, clamped inside the world
func (s *GameState) SetDropX(x float64) {
	if !vmath.IsFinite(x) {
		return
	}
	r := s.Board.MarbleRadius
	s.DropX = vmath.Clamp(x, r, s.Board.Width-r)
}

// StartGame resets the run, rebuilds the shuffled pending queue and enters running mode
// The live RNG restarts from Seed so repeated starts lay marbles out identically
func (s *GameState) StartGame() error {
	queue, err := s.buildQueue()
	if err != nil {
		return err
	}
	s.resetRun()
	s.rng = vmath.NewFastRand(s.Seed)
	s.Pending = s.layoutPending(queue)
	s.TotalToDrop = len(s.Pending)
	s.Mode = ModeRunning
	return nil
}

// DropAll releases every pending marble at once and separates initial overlaps
// Returns the number of marbles released
func (s *GameState) DropAll() int {
	if s.Mode != ModeRunning || len(s.Pending) == 0 {
		return 0
	}
	n := len(s.Pending)
	for _, m := range s.Pending {
		m.releasedAt = s.Time
		m.lastNudge = math.Inf(-1)
		m.resetWindow(s.Time)
	}
	s.Active = append(s.Active, s.Pending...)
	s.Pending = nil
	s.Released = true
	s.settle()
	return n
}

// ResetGame returns to idle, keeping board, catalog and counts
func (s *GameState) ResetGame() {
	s.resetRun()
	s.Mode = ModeIdle
}

func (s *GameState) resetRun() {
	s.Time = 0
	s.Released = false
	s.TotalToDrop = 0
	s.Pending = nil
	s.Active = nil
	s.Finished = nil
	s.Winner = nil
	for i := range s.slotFill {
		s.slotFill[i] = 0
	}
}

// Live returns the number of active marbles still simulated
func (s *GameState) Live() int {
	n := 0
	for _, m := range s.Active {
		if !m.Done {
			n++
		}
	}
	return n
}
