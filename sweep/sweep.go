// Package sweep runs an optional background janitor that purges expired
// entries. The cache is only "expiry-aware" without it: expired entries keep
// their share of the budget until they are read or evicted.
package sweep

import (
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/benbjohnson/clock"
)

// Purger removes every expired entry and reports how many it removed.
type Purger interface {
	PurgeExpired() int
}

// Janitor calls Purger.PurgeExpired on every tick until stopped.
type Janitor struct {
	target   Purger
	interval time.Duration
	clock    clock.Clock

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Start launches a janitor. interval must be positive.
func Start(target Purger, interval time.Duration, clk clock.Clock) *Janitor {
	if clk == nil {
		clk = clock.New()
	}
	j := &Janitor{
		target:   target,
		interval: interval,
		clock:    clk,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	ticker := clk.Ticker(interval)
	go j.run(ticker)
	return j
}

func (j *Janitor) run(ticker *clock.Ticker) {
	defer close(j.done)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			if n := j.target.PurgeExpired(); n > 0 {
				log.Debugf("sweep purged %d expired entries", n)
			}
		}
	}
}

// Stop halts the janitor and waits for an in-flight sweep to finish.
// It is safe to call more than once.
func (j *Janitor) Stop() {
	j.once.Do(func() {
		close(j.stop)
	})
	<-j.done
}
