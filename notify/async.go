package notify

import (
	"sync"

	"github.com/apex/log"
)

// AsyncListener delivers removals to a callback on a background worker.
type AsyncListener struct {
	fn func(Event)

	// ch buffers pending events so bursts of evictions do not block the cache.
	ch chan Event

	// wg waits for the worker during shutdown.
	wg sync.WaitGroup

	closeOnce sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewAsyncListener starts one worker that calls fn for each removal.
func NewAsyncListener(fn func(Event), buffer int) *AsyncListener {
	a := &AsyncListener{
		fn: fn,
		ch: make(chan Event, buffer),
	}

	a.wg.Add(1)
	go a.worker()

	return a
}

// OnRemove queues the event. If the queue is full the event is DROPPED,
// because blocking would stall the cache.
func (a *AsyncListener) OnRemove(key string, value any, reason Reason) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}

	select {
	case a.ch <- Event{Key: key, Value: value, Reason: reason}:
	default:
		log.WithField("key", key).Warnf("removal queue full, dropping %s event", reason)
	}
}

func (a *AsyncListener) worker() {
	defer a.wg.Done()

	for ev := range a.ch {
		a.fn(ev)
	}
}

/*
Close shuts the listener down gracefully:
1. Stop accepting events
2. Wait for the worker to deliver everything already queued
*/
func (a *AsyncListener) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()
		a.wg.Wait()
	})
}
