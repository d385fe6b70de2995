package expiration

import (
	"time"

	"github.com/krisalay/smartcache/types"
)

/*
ExpireAfterAccess implements a "sliding TTL".
Every time someone reads the data, the expiration timer is pushed forward. As long as the data keeps
getting used, it stays alive. If nobody touches it for a while, it expires.
*/
type ExpireAfterAccess struct {

	// TTL defines how long the entry should remain valid AFTER it is accessed.
	// Zero disables sliding; entries then only expire by an explicit TTL.
	TTL time.Duration
}

// IsExpired checks whether the entry is expired at this moment.
func (e *ExpireAfterAccess) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.ExpiredAt(now)
}

/*
OnAccess is called every time the cache successfully returns a value.
1. Update LastAccessedAt to now
2. Push ExpireAt forward by TTL, unless the caller set the deadline explicitly
*/
func (e *ExpireAfterAccess) OnAccess(ent *types.CacheEntry, now time.Time) {
	ent.LastAccessedAt = now
	if e.TTL > 0 && !ent.ExplicitTTL {
		ent.ExpireAt = now.Add(e.TTL)
	}
}

/*
OnWrite is called when the entry is first written or replaced in the cache.

An explicit deadline from SetWithTTL is kept; otherwise the sliding window
starts now.
*/
func (e *ExpireAfterAccess) OnWrite(ent *types.CacheEntry, now time.Time) {
	ent.CreatedAt = now
	ent.LastAccessedAt = now
	if !ent.ExplicitTTL && e.TTL > 0 {
		ent.ExpireAt = now.Add(e.TTL)
	}
}
