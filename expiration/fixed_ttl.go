package expiration

import (
	"time"

	"github.com/krisalay/smartcache/types"
)

// FixedTTL expires an entry TTL after it was written. Reads never extend the
// deadline. A zero TTL means entries without an explicit TTL never expire.
type FixedTTL struct {
	TTL time.Duration
}

func (f *FixedTTL) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.ExpiredAt(now)
}

// OnAccess only records recency.
func (f *FixedTTL) OnAccess(ent *types.CacheEntry, now time.Time) {
	ent.LastAccessedAt = now
}

// OnWrite applies the default TTL unless the caller set one explicitly.
func (f *FixedTTL) OnWrite(ent *types.CacheEntry, now time.Time) {
	ent.CreatedAt = now
	ent.LastAccessedAt = now
	if ent.ExpireAt.IsZero() && f.TTL > 0 {
		ent.ExpireAt = now.Add(f.TTL)
	}
}
