package cache_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	cache "github.com/krisalay/smartcache"
	"github.com/krisalay/smartcache/engine"
	"github.com/krisalay/smartcache/eviction"
	"github.com/krisalay/smartcache/expiration"
)

func newBenchmarkCache(b *testing.B) *cache.SmartCache {
	b.Helper()

	eng := engine.NewCacheEngine(&expiration.FixedTTL{TTL: 10 * time.Second}, nil, nil, nil)

	c, err := cache.NewSmartCache(64, eviction.LRU, eng)
	if err != nil {
		b.Fatal(err)
	}
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkCacheGetHit(b *testing.B) {
	c := newBenchmarkCache(b)
	defer c.Close()

	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}

func BenchmarkCacheGetMiss(b *testing.B) {
	c := newBenchmarkCache(b)
	defer c.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("miss-%d", i))
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkCacheParallelGet(b *testing.B) {
	c := newBenchmarkCache(b)
	defer c.Close()

	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get("key-42")
		}
	})
}

//
// ================= WRITE BENCH =================
//

func BenchmarkCacheSet(b *testing.B) {
	c := newBenchmarkCache(b)
	defer c.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
}

// BenchmarkCacheSetUnderPressure keeps the cache full so every Set evicts.
func BenchmarkCacheSetUnderPressure(b *testing.B) {
	c, err := cache.New(0.25, 0)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	value := strings.Repeat("x", 2048)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key-%d", i), value)
	}
}

//
// ================= HIGH CONCURRENCY TEST =================
//

func BenchmarkCacheHighConcurrency(b *testing.B) {
	c := newBenchmarkCache(b)
	defer c.Close()

	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		c.Set(keys[i], i)
	}

	b.ResetTimer()

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < b.N/100; j++ {
				c.Get(keys[j%len(keys)])
			}
		}()
	}
	wg.Wait()
}
