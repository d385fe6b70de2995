package metrics

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCountersConcurrent(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Hit()
				c.Miss()
			}
			c.Eviction()
			c.Expire()
		}()
	}
	wg.Wait()

	want := Snapshot{Hits: 800, Misses: 800, Evictions: 8, Expired: 8}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.5, c.Snapshot().HitRatio(), 1e-9)

	c.Reset()
	assert.Equal(t, Snapshot{}, c.Snapshot())
	assert.Zero(t, c.Snapshot().HitRatio())
}
