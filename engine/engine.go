package engine

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/krisalay/smartcache/expiration"
	"github.com/krisalay/smartcache/notify"
	"github.com/krisalay/smartcache/sizing"
	"github.com/krisalay/smartcache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.

It decides:
- When data is expired, and how reads and writes move the deadline
- How many bytes a value costs
- Who is told when entries leave the cache
- How metrics are recorded
- What time it is

It does NOT:
- Store data
- Handle locking
- Decide eviction order
*/
type CacheEngine struct {

	// Expiration controls when an entry is considered too old.
	// If nil, entries only expire by an explicit TTL.
	Expiration expiration.Strategy

	// Estimator prices values against the byte budget.
	Estimator sizing.Estimator

	// Listener is told about every removal. Optional.
	Listener notify.Listener

	// Metrics records hits, misses, evictions and expirations.
	Metrics types.Metrics

	// Clock is the time source. Tests swap in clock.NewMock().
	Clock clock.Clock

	// SweepInterval enables a background purge of expired entries when
	// positive. Zero keeps expiry purely lazy.
	SweepInterval time.Duration
}

/*
NewCacheEngine creates a CacheEngine.
Nil estimator, metrics and clock are replaced by defaults so the cache never
nil-checks them.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	estimator sizing.Estimator,
	listener notify.Listener,
	metrics types.Metrics,
) *CacheEngine {
	if estimator == nil {
		estimator = sizing.Structural{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Expiration: exp,
		Estimator:  estimator,
		Listener:   listener,
		Metrics:    metrics,
		Clock:      clock.New(),
	}
}

// Default returns an engine with a fixed default TTL (zero for none) and
// structural sizing.
func Default(defaultTTL time.Duration) *CacheEngine {
	return NewCacheEngine(&expiration.FixedTTL{TTL: defaultTTL}, nil, nil, nil)
}

// Now returns the engine's current time.
func (e *CacheEngine) Now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

// IsExpired checks whether a cache entry is expired at now.
// Entries with an explicit deadline expire even without a strategy.
func (e *CacheEngine) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	if e.Expiration != nil {
		return e.Expiration.IsExpired(ent, now)
	}
	return ent.ExpiredAt(now)
}

// OnRead is called every time the cache successfully returns a value.
func (e *CacheEngine) OnRead(ent *types.CacheEntry, now time.Time) {
	if e.Expiration != nil {
		e.Expiration.OnAccess(ent, now)
		return
	}
	ent.LastAccessedAt = now
}

// OnWrite stamps a new entry and applies write-related expiration rules.
func (e *CacheEngine) OnWrite(ent *types.CacheEntry, now time.Time) {
	if e.Expiration != nil {
		e.Expiration.OnWrite(ent, now)
		return
	}
	ent.CreatedAt = now
	ent.LastAccessedAt = now
}

// Size prices a key/value pair.
func (e *CacheEngine) Size(key string, value any) int64 {
	return sizing.EntrySize(e.Estimator, key, value)
}

// Notify forwards a removal to the listener, if any.
func (e *CacheEngine) Notify(ent *types.CacheEntry, reason notify.Reason) {
	if e.Listener != nil {
		e.Listener.OnRemove(ent.Key, ent.Value, reason)
	}
}

// Close releases the listener.
func (e *CacheEngine) Close() {
	if e.Listener != nil {
		e.Listener.Close()
	}
}
