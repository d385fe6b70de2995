package notify

/*
This file implements synchronous delivery.

Whenever the cache removes an entry, the callback runs immediately on the
caller's goroutine: Set → evict → callback → Set returns.
*/

// SyncListener forwards every removal to fn inline.
type SyncListener struct {
	fn func(Event)
}

// NewSyncListener creates a listener that calls fn for each removal.
func NewSyncListener(fn func(Event)) *SyncListener {
	return &SyncListener{fn: fn}
}

// OnRemove runs the callback. A slow callback makes cache writes slow.
func (s *SyncListener) OnRemove(key string, value any, reason Reason) {
	s.fn(Event{Key: key, Value: value, Reason: reason})
}

// Close is a no-op: there are no background workers.
func (s *SyncListener) Close() {}
