package cache

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/apex/log"

	api "github.com/krisalay/smartcache/api"
	"github.com/krisalay/smartcache/engine"
	evict "github.com/krisalay/smartcache/eviction"
	"github.com/krisalay/smartcache/notify"
	"github.com/krisalay/smartcache/sweep"
	"github.com/krisalay/smartcache/types"
)

// BytesPerMB converts the constructor's megabyte capacity to bytes.
const BytesPerMB = 1024 * 1024

var (
	_ api.Cache    = (*SmartCache)(nil)
	_ types.Store  = (*SmartCache)(nil)
	_ sweep.Purger = (*SmartCache)(nil)
)

/*
SmartCache is a byte-bounded, time-expiring key/value cache.
This struct is the orchestrator that connects:
- storage (one map guarded by one mutex)
- eviction (which key to give up when over budget)
- the engine (expiration, sizing, notifications, metrics, time)

Invariants, holding whenever no method is running:
- currentSize is the sum of Size over entries
- currentSize <= capacityBytes
- every key in entries is tracked by the eviction policy
*/
type SmartCache struct {
	mu sync.Mutex

	entries map[string]*types.CacheEntry

	// eviction decides which key goes when the budget is exceeded.
	eviction evict.Policy

	// engine contains the "rules" of the cache: TTL, sizing, listener, metrics, clock.
	engine *engine.CacheEngine

	capacityBytes int64
	currentSize   int64

	janitor   *sweep.Janitor
	closeOnce sync.Once
}

// Stats is a point-in-time view of the cache. Entries counts expired entries
// that have not been discovered yet.
type Stats struct {
	Entries  int   `json:"entries"`
	Size     int64 `json:"size"`
	Capacity int64 `json:"capacity"`
}

// removal is an entry that left the cache, queued for the listener until the
// lock is released.
type removal struct {
	ent    *types.CacheEntry
	reason notify.Reason
}

// New creates an LRU cache holding at most capacityMB megabytes. Entries set
// without an explicit TTL expire after defaultTTL; zero means never.
func New(capacityMB float64, defaultTTL time.Duration) (*SmartCache, error) {
	return NewSmartCache(capacityMB, evict.LRU, engine.Default(defaultTTL))
}

// NewSmartCache creates a cache with the given eviction policy and engine.
// A nil engine gets the defaults: no default TTL, structural sizing.
func NewSmartCache(capacityMB float64, policy evict.PolicyType, eng *engine.CacheEngine) (*SmartCache, error) {
	if !(capacityMB > 0) || math.IsInf(capacityMB, 1) {
		return nil, fmt.Errorf("%w: capacity must be a positive number of megabytes, got %v", ErrConfiguration, capacityMB)
	}
	if capacityMB*BytesPerMB >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: capacity of %v MB exceeds %d bytes", ErrConfiguration, capacityMB, int64(math.MaxInt64))
	}
	capacity := int64(capacityMB * BytesPerMB)
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity of %v MB is less than one byte", ErrConfiguration, capacityMB)
	}

	ev, err := evict.NewEvictionPolicy(policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if eng == nil {
		eng = engine.Default(0)
	}
	if eng.SweepInterval < 0 {
		return nil, fmt.Errorf("%w: sweep interval must not be negative, got %s", ErrConfiguration, eng.SweepInterval)
	}

	c := &SmartCache{
		entries:       make(map[string]*types.CacheEntry),
		eviction:      ev,
		engine:        eng,
		capacityBytes: capacity,
	}

	if eng.SweepInterval > 0 {
		c.janitor = sweep.Start(c, eng.SweepInterval, eng.Clock)
	}

	log.WithFields(log.Fields{
		"capacity": capacity,
		"policy":   string(policy),
		"sweep":    eng.SweepInterval.String(),
	}).Debug("cache created")

	return c, nil
}

/*
Set stores a value without an explicit TTL. The engine's default TTL, if any,
applies.
*/
func (c *SmartCache) Set(key string, value any) {
	c.SetWithTTL(key, value, 0)
}

/*
SetWithTTL stores a value that expires ttl from now. A zero or negative ttl
falls back to the default TTL.

An existing entry for key is replaced. Least recently used entries are then
evicted until the cache fits its budget again. A value that alone is larger
than the whole budget is not retained, and the previous value for key is
dropped as well.
*/
func (c *SmartCache) SetWithTTL(key string, value any, ttl time.Duration) {
	if key == "" {
		log.Warn("cache: ignoring set with empty key")
		return
	}

	// Pricing may walk a large value; keep it outside the lock.
	size := c.engine.Size(key, value)

	c.mu.Lock()

	now := c.engine.Now()
	ent := &types.CacheEntry{
		Key:   key,
		Value: value,
		Size:  size,
	}
	if ttl > 0 {
		ent.ExpireAt = now.Add(ttl)
		ent.ExplicitTTL = true
	}
	c.engine.OnWrite(ent, now)

	var removed []removal

	old, replaced := c.entries[key]
	if replaced {
		delete(c.entries, key)
		c.currentSize -= old.Size
		removed = append(removed, removal{old, notify.Replaced})
	}

	if size > c.capacityBytes {
		if replaced {
			c.eviction.Remove(key)
		}
		c.engine.Metrics.Eviction()
		removed = append(removed, removal{ent, notify.Oversize})
		log.Debugf("cache: %q needs %d bytes, capacity is %d; not retained", key, size, c.capacityBytes)
	} else {
		c.entries[key] = ent
		c.currentSize += size
		c.eviction.OnPut(key)
		removed = c.evictLocked(removed)
	}

	c.mu.Unlock()

	c.dispatch(removed)
}

/*
Get retrieves a value from the cache.

A live entry counts as accessed: its recency is bumped for eviction. An entry
whose TTL has passed is removed and reported as a miss. Get is therefore a
read with side effects.
*/
func (c *SmartCache) Get(key string) (any, bool) {
	c.mu.Lock()

	ent, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.engine.Metrics.Miss()
		return nil, false
	}

	now := c.engine.Now()
	if c.engine.IsExpired(ent, now) {
		c.removeLocked(ent)
		c.mu.Unlock()

		log.Debugf("cache: %q expired at %s", key, ent.ExpireAt.Format(time.RFC3339Nano))
		c.engine.Metrics.Expire()
		c.engine.Metrics.Miss()
		c.engine.Notify(ent, notify.Expired)
		return nil, false
	}

	c.engine.OnRead(ent, now)
	c.eviction.OnGet(key)
	value := ent.Value

	c.mu.Unlock()

	c.engine.Metrics.Hit()
	return value, true
}

/*
Delete removes a key from the cache immediately.
Removing a key that does not exist is a no-op.
*/
func (c *SmartCache) Delete(key string) {
	c.mu.Lock()
	ent, ok := c.entries[key]
	if ok {
		c.removeLocked(ent)
	}
	c.mu.Unlock()

	if ok {
		c.engine.Notify(ent, notify.Deleted)
	}
}

// Clear removes every entry and resets the size to zero.
func (c *SmartCache) Clear() {
	c.mu.Lock()
	old := c.entries
	c.entries = make(map[string]*types.CacheEntry)
	c.currentSize = 0
	for k := range old {
		c.eviction.Remove(k)
	}
	c.mu.Unlock()

	if c.engine.Listener == nil {
		return
	}
	for _, ent := range old {
		c.engine.Notify(ent, notify.Cleared)
	}
}

// Stats reports the entry count and the bytes currently charged.
// Expired entries nobody has read yet are still counted.
func (c *SmartCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Entries:  len(c.entries),
		Size:     c.currentSize,
		Capacity: c.capacityBytes,
	}
}

// Capacity returns the byte budget.
func (c *SmartCache) Capacity() int64 {
	return c.capacityBytes
}

/*
Expire sets or clears the TTL of an existing live key.
A positive ttl moves the deadline to now + ttl; zero or negative removes it.
Returns false when the key does not exist or has already expired.
*/
func (c *SmartCache) Expire(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return false
	}
	now := c.engine.Now()
	if c.engine.IsExpired(ent, now) {
		return false
	}

	if ttl > 0 {
		ent.ExpireAt = now.Add(ttl)
	} else {
		ent.ExpireAt = time.Time{}
	}
	ent.ExplicitTTL = true
	return true
}

/*
TTL returns the remaining time-to-live of a key.

Redis-compatible results:
  - >= 0: time remaining, zero exactly at the deadline
  - -1  : key exists without a TTL
  - -2  : key does not exist or has expired

TTL does not count as an access and does not purge.
*/
func (c *SmartCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return -2
	}
	now := c.engine.Now()
	if c.engine.IsExpired(ent, now) {
		return -2
	}
	if ent.ExpireAt.IsZero() {
		return -1
	}
	return ent.ExpireAt.Sub(now)
}

// PurgeExpired removes every expired entry and returns how many it removed.
// The background janitor calls it; callers may also run it on demand.
func (c *SmartCache) PurgeExpired() int {
	var removed []removal

	c.mu.Lock()
	now := c.engine.Now()
	for _, ent := range c.entries {
		if c.engine.IsExpired(ent, now) {
			c.removeLocked(ent)
			removed = append(removed, removal{ent, notify.Expired})
		}
	}
	c.mu.Unlock()

	for range removed {
		c.engine.Metrics.Expire()
	}
	c.dispatch(removed)
	return len(removed)
}

/*
Close stops the background janitor, if any, and shuts the listener down so
queued notifications are delivered. The cache stays usable for reads and
writes, but no further notifications are delivered by asynchronous listeners.
*/
func (c *SmartCache) Close() {
	c.closeOnce.Do(func() {
		if c.janitor != nil {
			c.janitor.Stop()
		}
		c.engine.Close()
	})
}

// evictLocked gives up entries in policy order until the budget is met.
func (c *SmartCache) evictLocked(removed []removal) []removal {
	for c.currentSize > c.capacityBytes && len(c.entries) > 0 {
		k := c.eviction.Evict()
		if k == "" {
			log.Errorf("cache: eviction policy is empty with %d entries over budget", len(c.entries))
			break
		}
		ent, ok := c.entries[k]
		if !ok {
			continue
		}
		delete(c.entries, k)
		c.currentSize -= ent.Size
		c.engine.Metrics.Eviction()
		removed = append(removed, removal{ent, notify.Evicted})
		log.Debugf("cache: evicted %q (%d bytes)", k, ent.Size)
	}
	return removed
}

func (c *SmartCache) removeLocked(ent *types.CacheEntry) {
	delete(c.entries, ent.Key)
	c.currentSize -= ent.Size
	c.eviction.Remove(ent.Key)
}

func (c *SmartCache) dispatch(removed []removal) {
	for _, r := range removed {
		c.engine.Notify(r.ent, r.reason)
	}
}
