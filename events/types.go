// Package events carries run lifecycle notifications from the automation driver to observers
package events

import (
	"strings"

	"github.com/lixenwraith/marble-lottery/engine"
)

// EventType represents the type of run event
type EventType int

const (
	// EventStart signals a new run with a freshly laid out queue
	// Trigger: Driver.Start | Payload: *StartPayload
	EventStart EventType = iota

	// EventDrop signals pending marbles released
	// Trigger: Driver.Drop | Payload: *DropPayload
	EventDrop

	// EventFinish signals one marble crossing the finish line
	// Trigger: Driver.Advance after the step that recorded it | Payload: *FinishPayload
	EventFinish

	// EventWinner signals the last arrival of the run
	// Trigger: Driver.Advance, once per run | Payload: *FinishPayload
	EventWinner

	// EventReset signals a return to idle
	// Trigger: Driver.Reset | Payload: nil
	EventReset

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	EventStart:  "start",
	EventDrop:   "drop",
	EventFinish: "finish",
	EventWinner: "winner",
	EventReset:  "reset",
}

func (t EventType) String() string {
	if t >= 0 && t < eventTypeCount {
		return eventNames[t]
	}
	return "unknown"
}

// ParseEventType maps a name back to its EventType, case-insensitive
func ParseEventType(name string) (EventType, bool) {
	for i, n := range eventNames {
		if strings.EqualFold(n, name) {
			return EventType(i), true
		}
	}
	return 0, false
}

// AllTypes returns every event type in declaration order
func AllTypes() []EventType {
	out := make([]EventType, eventTypeCount)
	for i := range out {
		out[i] = EventType(i)
	}
	return out
}

// GameEvent represents a single run event with its simulation timestamp
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64   // Driver step count when emitted
	Time    float64 // Simulated seconds
}

// StartPayload describes the queued run
type StartPayload struct {
	Seed  uint32
	Total int
}

// DropPayload carries the number of released marbles
type DropPayload struct {
	Count int
}

// FinishPayload carries one finish record
type FinishPayload struct {
	Record engine.FinishRecord
}
