// Package memo wraps expensive producers so their results are served from a
// cache.
//
// A miss runs the producer and stores its result; a hit returns the stored
// value without running it. Failed productions are never stored. Concurrent
// misses for the same key each run the producer unless WithSingleFlight is
// given.
package memo

import (
	"context"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/smartcache/types"
)

// Producer computes a value for arg.
type Producer[A, V any] func(ctx context.Context, arg A) (V, error)

// KeyFunc derives the cache key for arg. Equal keys must mean equal results.
type KeyFunc[A any] func(arg A) string

type options struct {
	prefix       string
	singleFlight bool
}

// Option configures Memoize.
type Option func(*options)

// WithPrefix namespaces every derived key, so several memoized producers can
// share one cache without colliding.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithSingleFlight makes concurrent misses for the same key share one
// producer call. The shared call runs with the context of the caller that
// started it.
func WithSingleFlight() Option {
	return func(o *options) { o.singleFlight = true }
}

/*
Memoize returns a Producer that consults store before calling producer.

 1. key = prefix + keyFn(arg)
 2. store.Get(key) → hit: return the value, producer is not called
 3. miss → producer(ctx, arg)
 4. success → store.SetWithTTL(key, value, ttl), return value
 5. failure → return the error unchanged, nothing is stored

A ttl of zero defers to the store's default TTL.
*/
func Memoize[A, V any](store types.Store, keyFn KeyFunc[A], producer Producer[A, V], ttl time.Duration, opts ...Option) Producer[A, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var group *singleflight.Group
	if o.singleFlight {
		group = &singleflight.Group{}
	}

	produce := func(ctx context.Context, key string, arg A) (V, error) {
		v, err := producer(ctx, arg)
		if err != nil {
			return v, err
		}
		store.SetWithTTL(key, v, ttl)
		return v, nil
	}

	return func(ctx context.Context, arg A) (V, error) {
		key := o.prefix + keyFn(arg)

		if cached, ok := store.Get(key); ok {
			if v, ok := cached.(V); ok {
				return v, nil
			}
			log.WithField("key", key).Warnf("memo: cached %T does not match, recomputing", cached)
		}

		if group == nil {
			return produce(ctx, key, arg)
		}

		res, err, _ := group.Do(key, func() (any, error) {
			return produce(ctx, key, arg)
		})
		if err != nil {
			var zero V
			return zero, err
		}
		v, _ := res.(V)
		return v, nil
	}
}

// Identity is a KeyFunc for producers whose string argument is already a
// suitable key.
func Identity(s string) string { return s }
