// This file defines how cache entries expire over time.

package expiration

import (
	"fmt"
	"strings"
	"time"

	"github.com/krisalay/smartcache/types"
)

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the cache, we define a strategy so expiration behavior can be swapped easily.

Expiry is passive: strategies are consulted on reads and writes, never from a timer.
*/
type Strategy interface {

	// IsExpired checks if the entry is expired
	IsExpired(*types.CacheEntry, time.Time) bool

	// OnAccess is called whenever a cache entry is read successfully.
	OnAccess(*types.CacheEntry, time.Time)

	// OnWrite is called whenever a cache entry is written or updated.
	// ExpireAt is already set when the caller gave an explicit TTL.
	OnWrite(*types.CacheEntry, time.Time)
}

// Kind names a Strategy in configuration.
type Kind string

const (
	// Fixed expires an entry a fixed duration after it was written.
	Fixed Kind = "fixed"

	// Sliding pushes the expiry forward on every read.
	Sliding Kind = "sliding"
)

// New builds the strategy for kind with ttl as the default time-to-live.
// An empty kind selects Fixed.
func New(kind string, ttl time.Duration) (Strategy, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", Fixed:
		return &FixedTTL{TTL: ttl}, nil
	case Sliding:
		return &ExpireAfterAccess{TTL: ttl}, nil
	default:
		return nil, fmt.Errorf("unknown expiration strategy %q", kind)
	}
}
