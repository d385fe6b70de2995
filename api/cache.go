package cache

import (
	"time"
)

/*
Cache defines the PUBLIC API of the in-memory cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Eviction order, expiry strategy, sizing and notifications are hidden behind this interface.
*/
type Cache interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. If the key exists and is NOT expired:
		   - Mark it as recently used
		   - Return the value and true (cache hit)

		2. If the key exists but is expired:
		   - Remove it, freeing its share of the budget
		   - Return nil and false

		3. If the key does not exist:
		   - Return nil and false

		A miss is a normal result, never an error.
	*/
	Get(key string) (any, bool)

	/*
		Set stores a key-value pair in the cache.

		BEHAVIOR:
		---------
		- Replaces any existing value for the key
		- Applies the default TTL, if one is configured
		- Evicts least recently used entries until the byte budget is met
	*/
	Set(key string, value any)

	/*
		SetWithTTL stores a key-value pair with an explicit time-to-live.

		- After ttl elapses the key is considered expired
		- Expired keys are lazily removed on access
		- Zero falls back to the default TTL
	*/
	SetWithTTL(key string, value any, ttl time.Duration)

	/*
		Delete removes a key from the cache immediately.

		This operation is idempotent:
		- Removing a non-existing key is safe
	*/
	Delete(key string)

	// Clear removes every key.
	Clear()

	/*
		Expire sets or updates the TTL for an existing key.

		- If the key is live: updates its expiration to now + ttl and returns true
		- A zero or negative ttl removes the expiration instead
		- If the key does NOT exist or has expired: does nothing and returns false
	*/
	Expire(key string, ttl time.Duration) bool

	/*
		TTL returns the remaining time-to-live for a key.

		RETURN VALUES (Redis-compatible semantics):
		-------------------------------------------
		>= 0  : Duration remaining before expiration (zero at the deadline)
		-1    : Key exists but has no TTL
		-2    : Key does not exist or is already expired
	*/
	TTL(key string) time.Duration

	/*
		Close gracefully shuts down the cache.

		- Stops the background sweep, if enabled
		- Flushes pending asynchronous removal notifications
	*/
	Close()
}
