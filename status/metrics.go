package status

import (
	"math"
	"sync/atomic"
)

// Metric is anything the registry can publish
type Metric interface {
	Value() any
}

// Counter is a monotonic or up/down int64 count
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Add(delta int64) int64 { return c.n.Add(delta) }
func (c *Counter) Inc() int64            { return c.n.Add(1) }
func (c *Counter) Load() int64           { return c.n.Load() }
func (c *Counter) Value() any            { return c.n.Load() }

// Flag is an on/off state
type Flag struct {
	b atomic.Bool
}

func (f *Flag) Set(on bool) { f.b.Store(on) }
func (f *Flag) Load() bool  { return f.b.Load() }
func (f *Flag) Value() any  { return f.b.Load() }

// Gauge holds a float64 as its bit pattern, zero value is 0.0
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }

func (g *Gauge) Load() float64 { return math.Float64frombits(g.bits.Load()) }

func (g *Gauge) Value() any { return g.Load() }

// SetMax raises the gauge to v if v is larger, returning the resulting value
// NaN never replaces the stored value
func (g *Gauge) SetMax(v float64) float64 {
	for {
		old := g.bits.Load()
		cur := math.Float64frombits(old)
		if !(v > cur) {
			return cur
		}
		if g.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}

// MaxLabelLen bounds stored labels, longer values are truncated
const MaxLabelLen = 64

// Label holds a short string such as the last winning entity id
type Label struct {
	p atomic.Pointer[string]
}

func (l *Label) Set(s string) {
	if len(s) > MaxLabelLen {
		s = s[:MaxLabelLen]
	}
	l.p.Store(&s)
}

func (l *Label) Load() string {
	if p := l.p.Load(); p != nil {
		return *p
	}
	return ""
}

func (l *Label) Value() any { return l.Load() }
