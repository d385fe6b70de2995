// This file implements LRU eviction.

package eviction

// lruNode is one tracked key in the recency list.
type lruNode struct {
	key  string
	prev *lruNode // more recently used neighbour
	next *lruNode // less recently used neighbour
}

// lru keeps keys in a doubly-linked list ordered by last access, so the order
// of the list always matches the entries' LastAccessedAt order.
type lru struct {
	// nodes maps cache keys to their list nodes for O(1) moves.
	nodes map[string]*lruNode

	// head is the MOST recently used key
	head *lruNode

	// tail is the LEAST recently used key
	tail *lruNode
}

func newLRU() *lru {
	return &lru{nodes: make(map[string]*lruNode)}
}

// OnGet marks the key as most recently used.
func (l *lru) OnGet(k string) {
	if n, ok := l.nodes[k]; ok {
		l.moveToFront(n)
	}
}

// OnPut tracks a new key at the front of the list. Re-inserting an existing
// key refreshes its recency, since a set counts as an access.
func (l *lru) OnPut(k string) {
	if n, ok := l.nodes[k]; ok {
		l.moveToFront(n)
		return
	}
	n := &lruNode{key: k}
	l.nodes[k] = n
	l.addFront(n)
}

// Evict removes and returns the least recently used key, or "" when empty.
func (l *lru) Evict() string {
	if l.tail == nil {
		return ""
	}
	k := l.tail.key
	l.unlink(l.tail)
	delete(l.nodes, k)
	return k
}

// Remove forgets a key that left the cache for a reason other than eviction.
func (l *lru) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		delete(l.nodes, k)
	}
}

func (l *lru) Len() int { return len(l.nodes) }

func (l *lru) addFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *lru) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (l *lru) moveToFront(n *lruNode) {
	if l.head == n {
		return
	}
	l.unlink(n)
	l.addFront(n)
}
