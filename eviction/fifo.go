// This file implements FIFO eviction.

package eviction

import "container/list"

type fifo struct {
	// queue keeps keys in insertion order; the front is the oldest key.
	queue *list.List

	// elems locates a key's queue element for O(1) removal.
	elems map[string]*list.Element
}

func newFIFO() *fifo {
	return &fifo{
		queue: list.New(),
		elems: make(map[string]*list.Element),
	}
}

// OnGet is ignored: FIFO only cares about insertion order.
func (f *fifo) OnGet(string) {}

// OnPut enqueues a new key. Replacing a key keeps its original position.
func (f *fifo) OnPut(k string) {
	if _, ok := f.elems[k]; ok {
		return
	}
	f.elems[k] = f.queue.PushBack(k)
}

func (f *fifo) Evict() string {
	front := f.queue.Front()
	if front == nil {
		return ""
	}
	k := f.queue.Remove(front).(string)
	delete(f.elems, k)
	return k
}

func (f *fifo) Remove(k string) {
	if e, ok := f.elems[k]; ok {
		f.queue.Remove(e)
		delete(f.elems, k)
	}
}

func (f *fifo) Len() int { return len(f.elems) }
