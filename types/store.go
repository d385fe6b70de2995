package types

import "time"

// Store is the contract between the memoization helpers and the cache.
//
// It is the narrow read/write surface a memoizer needs:
//  1. Get the key → hit: return the cached value
//  2. Miss → run the producer
//  3. SetWithTTL the result
//
// *cache.SmartCache satisfies it; tests may substitute a map.
type Store interface {
	Get(key string) (any, bool)
	SetWithTTL(key string, value any, ttl time.Duration)
}
