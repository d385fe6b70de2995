package eviction

import (
	"fmt"
	"strings"
)

/*
Policy decides which key the cache gives up when the byte budget is exceeded.

The cache does NOT care how eviction works internally. It reports every
insert, read and explicit removal, and asks for a victim with Evict until the
budget is satisfied. Policies are not safe for concurrent use; the cache calls
them under its own lock.
*/
type Policy interface {

	// OnGet is called whenever a key is read from the cache.
	//
	// - LRU moves the key to the most recently used position
	// - LFU counts the access
	// - FIFO ignores it
	OnGet(string)

	// OnPut is called whenever a key is inserted or replaced.
	OnPut(string)

	// Remove is called when a key leaves the cache for any reason other than
	// Evict (delete, expiry, replacement by an oversized value).
	Remove(string)

	// Evict removes the next victim from the policy's bookkeeping and
	// returns it. It returns "" when nothing is tracked.
	Evict() string

	// Len reports how many keys are tracked.
	Len() int
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): evicts the key with the oldest last access.
	// This is the default.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): evicts the key with the fewest accesses,
	// oldest first among ties.
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): evicts the oldest inserted key, regardless of access.
	FIFO PolicyType = "FIFO"
)

// ParsePolicyType maps a case-insensitive name to a PolicyType.
// An empty name selects LRU.
func ParsePolicyType(s string) (PolicyType, error) {
	switch PolicyType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", LRU:
		return LRU, nil
	case LFU:
		return LFU, nil
	case FIFO:
		return FIFO, nil
	default:
		return "", fmt.Errorf("unknown eviction policy %q", s)
	}
}

// NewEvictionPolicy creates the policy for t.
func NewEvictionPolicy(t PolicyType) (Policy, error) {
	switch t {
	case LRU, "":
		return newLRU(), nil
	case LFU:
		return newLFU(), nil
	case FIFO:
		return newFIFO(), nil
	default:
		return nil, fmt.Errorf("unknown eviction policy %q", t)
	}
}
