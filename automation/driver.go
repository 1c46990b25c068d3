// Package automation advances a GameState on a fixed timestep and reports run events
//
// The Driver is the debug and automation hook: callers feed it wall-clock
// milliseconds, it runs whole engine steps and publishes start, drop, finish
// and winner events to registered handlers
// A Driver is not safe for concurrent use
package automation

import (
	"io"
	"log"
	"math"

	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/events"
	"github.com/lixenwraith/marble-lottery/parameter"
)

// Driver owns the step accumulator of one GameState
type Driver struct {
	State  *engine.GameState
	TickHz int

	queue  *events.EventQueue
	router *events.Router[*engine.GameState]
	logger *log.Logger

	accMs      float64 // Unconsumed milliseconds
	frame      int64   // Steps executed since Start
	reported   int     // Finish records already published
	winnerSent bool
}

// NewDriver creates a driver stepping s at tickHz, DefaultTickHz when tickHz <= 0
// A nil logger discards driver logs
func NewDriver(s *engine.GameState, tickHz int, logger *log.Logger) *Driver {
	if tickHz <= 0 {
		tickHz = parameter.DefaultTickHz
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	q := events.NewEventQueue()
	return &Driver{
		State:  s,
		TickHz: tickHz,
		queue:  q,
		router: events.NewRouter[*engine.GameState](q),
		logger: logger,
	}
}

// Register adds an event handler, handlers run synchronously inside driver calls
func (d *Driver) Register(h events.Handler[*engine.GameState]) {
	d.router.Register(h)
}

// StepSeconds returns the fixed step length
func (d *Driver) StepSeconds() float64 {
	return 1 / float64(d.TickHz)
}

// Frame returns the number of steps executed since the last Start or Reset
func (d *Driver) Frame() int64 {
	return d.frame
}

// Start begins a new run from the current counts
func (d *Driver) Start() error {
	if err := d.State.StartGame(); err != nil {
		d.logger.Printf("start failed: %v", err)
		return err
	}
	d.rewind()
	d.emit(events.EventStart, &events.StartPayload{Seed: d.State.Seed, Total: d.State.TotalToDrop})
	d.logger.Printf("run started: seed=%d total=%d board=%s", d.State.Seed, d.State.TotalToDrop, d.State.Board.Name)
	d.dispatch()
	return nil
}

// Drop releases every pending marble, returns the number released
func (d *Driver) Drop() int {
	n := d.State.DropAll()
	if n > 0 {
		d.emit(events.EventDrop, &events.DropPayload{Count: n})
		d.logger.Printf("dropped %d marbles at t=%.3f", n, d.State.Time)
		d.dispatch()
	}
	return n
}

// Reset returns the state to idle
func (d *Driver) Reset() {
	d.State.ResetGame()
	d.rewind()
	d.emit(events.EventReset, nil)
	d.dispatch()
}

func (d *Driver) rewind() {
	d.accMs = 0
	d.frame = 0
	d.reported = 0
	d.winnerSent = false
}

// Advance adds ms of wall-clock time and runs every whole step it covers
// The remainder carries to the next call; non-positive or non-finite ms is ignored
// Returns the number of steps executed
func (d *Driver) Advance(ms float64) int {
	if !(ms > 0) || math.IsInf(ms, 1) {
		return 0
	}
	d.accMs += math.Min(ms, parameter.MaxAdvanceMs)

	stepMs := 1000 / float64(d.TickHz)
	dt := d.StepSeconds()
	steps := 0
	for d.accMs >= stepMs {
		d.accMs -= stepMs
		if d.State.Mode != engine.ModeRunning || d.State.Winner != nil {
			continue
		}
		d.State.Step(dt)
		d.frame++
		steps++
		d.collect()
		d.dispatch()
	}
	return steps
}

// RunToCompletion steps until a winner exists or maxSteps have run
// Returns true if the run produced a winner
func (d *Driver) RunToCompletion(maxSteps int) bool {
	dt := d.StepSeconds()
	for i := 0; i < maxSteps && d.State.Winner == nil; i++ {
		if d.State.Mode != engine.ModeRunning {
			break
		}
		d.State.Step(dt)
		d.frame++
		d.collect()
		d.dispatch()
	}
	return d.State.Winner != nil
}

// Snapshot returns the text snapshot of the current state
func (d *Driver) Snapshot() engine.TextSnapshot {
	return d.State.SnapshotForText()
}

// collect queues events for finish records and the winner produced by the last step
func (d *Driver) collect() {
	s := d.State
	for ; d.reported < len(s.Finished); d.reported++ {
		d.emit(events.EventFinish, &events.FinishPayload{Record: s.Finished[d.reported]})
	}
	if s.Winner != nil && !d.winnerSent {
		d.winnerSent = true
		w := *s.Winner
		d.emit(events.EventWinner, &events.FinishPayload{Record: w})
		d.logger.Printf("winner: marble %d (%s) slot %s at t=%.3f", w.MarbleID, w.EntityID, w.Label, w.T)
	}
}

func (d *Driver) emit(t events.EventType, payload any) {
	d.queue.Push(events.GameEvent{Type: t, Payload: payload, Frame: d.frame, Time: d.State.Time})
}

func (d *Driver) dispatch() {
	d.router.DispatchAll(d.State)
}
