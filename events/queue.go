package events

import (
	"sync"

	"github.com/lixenwraith/marble-lottery/parameter"
)

// EventQueue buffers run events between a driver call and its dispatch
// Push may be called from any goroutine; Consume hands the whole backlog to one reader
//
// Overflow: none, the queue grows until consumed and never drops an event
// The driver drains it after every step, so the backlog is bounded by one
// step worth of finishes plus the start, drop and winner events
type EventQueue struct {
	mu      sync.Mutex
	pending []GameEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push appends event in arrival order
func (eq *EventQueue) Push(event GameEvent) {
	eq.mu.Lock()
	if eq.pending == nil {
		eq.pending = make([]GameEvent, 0, parameter.EventQueueInitialCap)
	}
	eq.pending = append(eq.pending, event)
	eq.mu.Unlock()
}

// Consume returns every pending event in FIFO order, nil when empty
// The returned slice belongs to the caller
func (eq *EventQueue) Consume() []GameEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	out := eq.pending
	eq.pending = nil
	if len(out) == 0 {
		return nil
	}
	return out
}

// Len returns the number of unread events
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return len(eq.pending)
}
