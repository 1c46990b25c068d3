// Package status keeps live counters that the server publishes on /status
package status

import (
	"fmt"
	"sync"
)

// Registry maps metric names to typed metrics
// Callers look a metric up once and keep the pointer; updates never take the registry lock
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

func (r *Registry) Counter(name string) *Counter { return lookup(r, name, new(Counter)) }
func (r *Registry) Flag(name string) *Flag       { return lookup(r, name, new(Flag)) }
func (r *Registry) Gauge(name string) *Gauge     { return lookup(r, name, new(Gauge)) }
func (r *Registry) Label(name string) *Label     { return lookup(r, name, new(Label)) }

// lookup returns the metric registered under name, registering fresh on first use
// Reusing a name for a different metric type is a programming error and panics
func lookup[M Metric](r *Registry, name string, fresh M) M {
	r.mu.RLock()
	m, ok := r.metrics[name]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		if m, ok = r.metrics[name]; !ok {
			m = fresh
			r.metrics[name] = m
		}
		r.mu.Unlock()
	}
	typed, ok := m.(M)
	if !ok {
		panic(fmt.Sprintf("status: metric %q is %T, not %T", name, m, fresh))
	}
	return typed
}

// Len returns the number of registered metrics
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.metrics)
}

// Snapshot copies every metric value into a flat map for encoding
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.metrics))
	for name, m := range r.metrics {
		out[name] = m.Value()
	}
	return out
}
