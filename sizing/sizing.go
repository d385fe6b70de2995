// Package sizing estimates how many bytes a cached value occupies.
//
// Estimates are best-effort: they only need to be deterministic for a given
// value shape and grow with the payload, so the cache can keep a byte budget.
package sizing

import (
	"github.com/apex/log"
)

const (
	// DefaultSize is charged for values that cannot be introspected cheaply,
	// and for any value whose estimation failed.
	DefaultSize int64 = 1024

	// EntryOverhead is the fixed per-entry bookkeeping cost the cache adds on
	// top of the key and value estimates (entry struct, map slot, list node).
	EntryOverhead int64 = 64
)

// Estimator maps a value to an approximate byte size.
type Estimator interface {
	Estimate(v any) int64
}

// Func adapts a plain function to an Estimator.
type Func func(v any) int64

func (f Func) Estimate(v any) int64 { return f(v) }

// Sizer lets a value report its own footprint. Structural uses it in
// preference to reflection.
type Sizer interface {
	Size() int64
}

// Safe runs est and falls back to DefaultSize if the estimator panics or
// returns a negative number. It never panics itself.
func Safe(est Estimator, v any) (n int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("size estimation failed for %T: %v", v, r)
			n = DefaultSize
		}
	}()
	if est == nil {
		est = Structural{}
	}
	n = est.Estimate(v)
	if n < 0 {
		return DefaultSize
	}
	return n
}

// EntrySize is the number of bytes a key/value pair is charged in the cache.
func EntrySize(est Estimator, key string, v any) int64 {
	return EntryOverhead + int64(len(key)) + Safe(est, v)
}
