package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) add(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestSyncListener(t *testing.T) {
	rec := &recorder{}
	l := NewSyncListener(rec.add)

	l.OnRemove("a", 1, Evicted)
	l.OnRemove("b", 2, Expired)
	l.Close()

	assert.Equal(t, []Event{
		{Key: "a", Value: 1, Reason: Evicted},
		{Key: "b", Value: 2, Reason: Expired},
	}, rec.snapshot())
}

func TestAsyncListenerDrainsOnClose(t *testing.T) {
	rec := &recorder{}
	l := NewAsyncListener(rec.add, 16)

	for i := 0; i < 10; i++ {
		l.OnRemove("k", i, Deleted)
	}
	l.Close()

	assert.Len(t, rec.snapshot(), 10)

	// events after Close are ignored rather than panicking on a closed channel
	l.OnRemove("late", 0, Deleted)
	l.Close()
	assert.Len(t, rec.snapshot(), 10)
}

func TestAsyncListenerDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	rec := &recorder{}
	l := NewAsyncListener(func(ev Event) {
		<-release
		rec.add(ev)
	}, 1)

	for i := 0; i < 50; i++ {
		l.OnRemove("k", i, Evicted)
	}
	close(release)
	l.Close()

	got := len(rec.snapshot())
	assert.GreaterOrEqual(t, got, 1)
	assert.Less(t, got, 50)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{NewSyncListener(a.add), NewSyncListener(b.add), LogListener{}}

	m.OnRemove("x", "v", Replaced)
	m.Close()

	assert.Len(t, a.snapshot(), 1)
	assert.Len(t, b.snapshot(), 1)
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "oversize", Oversize.String())
	assert.Equal(t, "cleared", Cleared.String())
	assert.Equal(t, "unknown", Reason(99).String())
}
