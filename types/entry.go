package types

import "time"

// CacheEntry is one stored value plus the bookkeeping the cache needs to
// expire and evict it. Entries are only mutated while the owning cache holds
// its lock.
type CacheEntry struct {
	Key            string
	Value          any
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpireAt       time.Time // zero => no TTL

	// ExplicitTTL is set once the caller chose the deadline through
	// SetWithTTL or Expire. Sliding expiration leaves such entries alone.
	ExplicitTTL bool

	// Size is the approximate number of bytes this entry accounts for in the
	// cache budget. It is computed once on insertion and never changes.
	Size int64
}

// ExpiredAt reports whether the entry has a TTL that lies before now.
func (e *CacheEntry) ExpiredAt(now time.Time) bool {
	return !e.ExpireAt.IsZero() && now.After(e.ExpireAt)
}
