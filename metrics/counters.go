// Package metrics provides an in-process implementation of types.Metrics.
package metrics

import (
	"sync/atomic"

	"github.com/krisalay/smartcache/types"
)

var _ types.Metrics = (*Counters)(nil)

// Counters counts cache events with atomics and is safe for concurrent use.
type Counters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	expired   atomic.Uint64
}

func (c *Counters) Hit()      { c.hits.Add(1) }
func (c *Counters) Miss()     { c.misses.Add(1) }
func (c *Counters) Eviction() { c.evictions.Add(1) }
func (c *Counters) Expire()   { c.expired.Add(1) }

// Snapshot is a copy of the counters at one point in time.
type Snapshot struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
}

// HitRatio is hits / (hits + misses), or 0 before any lookup.
func (s Snapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Expired:   c.expired.Load(),
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.expired.Store(0)
}
