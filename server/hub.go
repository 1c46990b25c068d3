// Package server exposes an automation Driver over HTTP and websocket
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/marble-lottery/automation"
	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/events"
	"github.com/lixenwraith/marble-lottery/status"
	"github.com/lixenwraith/marble-lottery/store"
)

const (
	writeWait = 5 * time.Second

	// subscriberBuffer is the outbound backlog per websocket; a client that falls
	// this far behind is disconnected rather than slowing the hub
	subscriberBuffer = 256
)

// ErrUnknownOp reports a command the hub does not handle
var ErrUnknownOp = errors.New("unknown op")

var (
	errSubscriberClosed = errors.New("subscriber closed")
	errSubscriberBehind = errors.New("subscriber buffer full")
)

// Archive receives finished runs
type Archive interface {
	SaveRun(ctx context.Context, r store.Run) (int64, error)
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
}

// Command is a client request, sent as JSON over the websocket
type Command struct {
	Op string  `json:"op"` // snapshot, advance, start, drop, reset
	MS float64 `json:"ms,omitempty"`
}

// Reply answers one Command
type Reply struct {
	Type     string               `json:"type"` // "snapshot" or "error"
	Steps    int                  `json:"steps,omitempty"`
	Dropped  int                  `json:"dropped,omitempty"`
	Error    string               `json:"error,omitempty"`
	Snapshot *engine.TextSnapshot `json:"snapshot,omitempty"`
}

// EventMessage is pushed to every websocket subscriber for each driver event
type EventMessage struct {
	Type   string               `json:"type"` // always "event"
	Event  string               `json:"event"`
	Frame  int64                `json:"frame"`
	Time   float64              `json:"time"`
	Count  int                  `json:"count,omitempty"`
	Record *engine.FinishRecord `json:"record,omitempty"`
	RunID  int64                `json:"run_id,omitempty"`
}

// subscriber owns one websocket; a writer goroutine drains send
type subscriber struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newSubscriber(conn *websocket.Conn, buffer int) *subscriber {
	return &subscriber{conn: conn, send: make(chan []byte, buffer)}
}

// enqueue never blocks
func (sub *subscriber) enqueue(data []byte) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return errSubscriberClosed
	}
	select {
	case sub.send <- data:
		return nil
	default:
		return errSubscriberBehind
	}
}

func (sub *subscriber) close() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.closed {
		sub.closed = true
		close(sub.send)
	}
}

// Hub serialises access to one Driver and fans its events out to subscribers
type Hub struct {
	mu      sync.Mutex
	driver  *automation.Driver
	archive Archive
	logger  *log.Logger

	subsMu sync.Mutex
	subs   map[*subscriber]struct{}

	upgrader websocket.Upgrader
	metrics  *status.Registry
	stats    hubStats
}

// hubStats caches metric pointers written on every event
type hubStats struct {
	runActive       *status.Flag
	runsStarted     *status.Counter
	runsFinished    *status.Counter
	marblesDropped  *status.Counter
	marblesDone     *status.Counter
	subscribers     *status.Counter
	slowSubscribers *status.Counter
	archiveErrors   *status.Counter
	lastDuration    *status.Gauge
	longestDuration *status.Gauge
	lastWinner      *status.Label
}

func newHubStats(r *status.Registry) hubStats {
	return hubStats{
		runActive:       r.Flag("run.active"),
		runsStarted:     r.Counter("runs.started"),
		runsFinished:    r.Counter("runs.finished"),
		marblesDropped:  r.Counter("marbles.dropped"),
		marblesDone:     r.Counter("marbles.finished"),
		subscribers:     r.Counter("ws.subscribers"),
		slowSubscribers: r.Counter("ws.slow_dropped"),
		archiveErrors:   r.Counter("archive.errors"),
		lastDuration:    r.Gauge("run.last_duration"),
		longestDuration: r.Gauge("run.longest_duration"),
		lastWinner:      r.Label("run.last_winner"),
	}
}

// NewHub wraps d; archive may be nil
func NewHub(d *automation.Driver, archive Archive, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	h := &Hub{
		driver:  d,
		archive: archive,
		logger:  logger,
		subs:    make(map[*subscriber]struct{}),
		metrics: status.NewRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	h.stats = newHubStats(h.metrics)
	d.Register(events.HandlerFunc(h.onEvent))
	return h
}

// onEvent runs inside driver calls, with h.mu held
// Delivery only enqueues, so a slow websocket never holds up the driver
func (h *Hub) onEvent(s *engine.GameState, ev events.GameEvent) {
	msg := EventMessage{Type: "event", Event: ev.Type.String(), Frame: ev.Frame, Time: ev.Time}
	switch p := ev.Payload.(type) {
	case *events.DropPayload:
		msg.Count = p.Count
		h.stats.marblesDropped.Add(int64(p.Count))
	case *events.StartPayload:
		msg.Count = p.Total
		h.stats.runsStarted.Inc()
		h.stats.runActive.Set(true)
	case *events.FinishPayload:
		rec := p.Record
		msg.Record = &rec
	}

	switch ev.Type {
	case events.EventFinish:
		h.stats.marblesDone.Inc()
	case events.EventWinner:
		h.stats.runsFinished.Inc()
		h.stats.runActive.Set(false)
		h.stats.lastDuration.Set(ev.Time)
		h.stats.longestDuration.SetMax(ev.Time)
		h.stats.lastWinner.Set(msg.Record.EntityID)
	case events.EventReset:
		h.stats.runActive.Set(false)
	}

	if ev.Type == events.EventWinner && h.archive != nil {
		id, err := h.archive.SaveRun(context.Background(), store.RunFromState(s))
		if err != nil {
			h.stats.archiveErrors.Inc()
			h.logger.Printf("archive run failed: %v", err)
		} else {
			msg.RunID = id
			h.logger.Printf("archived run %d", id)
		}
	}
	h.broadcast(msg)
}

// Apply executes one command against the driver
func (h *Hub) Apply(cmd Command) (Reply, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var r Reply
	switch cmd.Op {
	case "snapshot":
	case "advance":
		r.Steps = h.driver.Advance(cmd.MS)
	case "start":
		if err := h.driver.Start(); err != nil {
			return Reply{}, err
		}
	case "drop":
		r.Dropped = h.driver.Drop()
	case "reset":
		h.driver.Reset()
	default:
		return Reply{}, fmt.Errorf("%w %q", ErrUnknownOp, cmd.Op)
	}
	snap := h.driver.Snapshot()
	r.Type = "snapshot"
	r.Snapshot = &snap
	return r, nil
}

// Handler returns the HTTP routes of the hub
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", h.command("snapshot"))
	mux.HandleFunc("POST /advance", h.command("advance"))
	mux.HandleFunc("POST /start", h.command("start"))
	mux.HandleFunc("POST /drop", h.command("drop"))
	mux.HandleFunc("POST /reset", h.command("reset"))
	mux.HandleFunc("GET /runs", h.listRuns)
	mux.HandleFunc("GET /status", h.serveStatus)
	mux.HandleFunc("GET /ws", h.serveWS)
	return mux
}

func (h *Hub) command(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd := Command{Op: op}
		if op == "advance" {
			ms, err := strconv.ParseFloat(r.URL.Query().Get("ms"), 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, Reply{Type: "error", Error: "ms must be a number"})
				return
			}
			cmd.MS = ms
		}
		reply, err := h.Apply(cmd)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Reply{Type: "error", Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

func (h *Hub) listRuns(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		http.Error(w, "no archive configured", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.archive.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Printf("list runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Hub) serveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics.Snapshot())
}

// Metrics returns the live counters of the hub
func (h *Hub) Metrics() *status.Registry {
	return h.metrics
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}
	sub := newSubscriber(conn, subscriberBuffer)
	h.subsMu.Lock()
	h.subs[sub] = struct{}{}
	h.subsMu.Unlock()
	h.stats.subscribers.Inc()
	go h.writePump(sub)
	defer h.drop(sub)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		var reply Reply
		if err := json.Unmarshal(payload, &cmd); err != nil {
			reply = Reply{Type: "error", Error: "malformed command"}
		} else if reply, err = h.Apply(cmd); err != nil {
			reply = Reply{Type: "error", Error: err.Error()}
		}
		data, err := json.Marshal(reply)
		if err != nil || sub.enqueue(data) != nil {
			return
		}
	}
}

// writePump is the only writer of sub.conn and closes it when send is closed
func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("websocket write failed: %v", err)
			h.drop(sub)
			return
		}
	}
}

func (h *Hub) broadcast(msg EventMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("failed to encode event: %v", err)
		return
	}

	h.subsMu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subsMu.Unlock()

	for _, sub := range subs {
		if err := sub.enqueue(data); err != nil {
			if errors.Is(err, errSubscriberBehind) {
				h.logger.Printf("dropping slow subscriber")
				h.stats.slowSubscribers.Inc()
			}
			h.drop(sub)
		}
	}
}

// drop unregisters sub and closes its outbound queue, safe to call more than once
func (h *Hub) drop(sub *subscriber) {
	h.subsMu.Lock()
	_, present := h.subs[sub]
	delete(h.subs, sub)
	h.subsMu.Unlock()
	if present {
		h.stats.subscribers.Add(-1)
	}
	sub.close()
}

// Subscribers returns the number of connected websocket clients
func (h *Hub) Subscribers() int {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	return len(h.subs)
}
