package events

// Handler processes specific event types within a context T
type Handler[T any] interface {
	// HandleEvent processes a single event
	// Called synchronously during dispatch
	HandleEvent(ctx T, event GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router[T any] struct {
	handlers map[EventType][]Handler[T]
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *EventQueue) *Router[T] {
	return &Router[T]{
		handlers: make(map[EventType][]Handler[T]),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes all pending events and routes them in FIFO order
// Returns the number of events consumed
func (r *Router[T]) DispatchAll(ctx T) int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ctx, ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}

// FuncHandler adapts a function to Handler
type FuncHandler[T any] struct {
	fn    func(T, GameEvent)
	types []EventType
}

// HandlerFunc wraps fn for the given types, all types when none are given
func HandlerFunc[T any](fn func(T, GameEvent), types ...EventType) *FuncHandler[T] {
	if len(types) == 0 {
		types = AllTypes()
	}
	return &FuncHandler[T]{fn: fn, types: types}
}

func (h *FuncHandler[T]) HandleEvent(ctx T, event GameEvent) { h.fn(ctx, event) }

func (h *FuncHandler[T]) EventTypes() []EventType { return h.types }
