// This file implements LFU eviction.

package eviction

// lfuNode represents one key tracked by LFU.
type lfuNode struct {
	key  string
	freq int // accesses, including the insert
	seq  uint64
}

// lfu evicts the least frequently used key. Ties are broken by the oldest
// touch, which keeps eviction deterministic.
type lfu struct {
	nodes map[string]*lfuNode

	// freqMap groups keys by access count.
	freqMap map[int]map[string]*lfuNode

	// minFreq is the smallest frequency with a non-empty bucket, or 0 when
	// it has to be recomputed.
	minFreq int

	// seq is a logical clock for tie-breaking.
	seq uint64
}

func newLFU() *lfu {
	return &lfu{
		nodes:   make(map[string]*lfuNode),
		freqMap: make(map[int]map[string]*lfuNode),
	}
}

func (l *lfu) OnGet(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}
	l.bump(n)
}

// OnPut starts a new key at frequency 1. A replaced key keeps its history and
// counts the write as one more access.
func (l *lfu) OnPut(k string) {
	if n, ok := l.nodes[k]; ok {
		l.bump(n)
		return
	}
	l.seq++
	n := &lfuNode{key: k, freq: 1, seq: l.seq}
	l.nodes[k] = n
	l.bucket(1)[k] = n
	l.minFreq = 1
}

func (l *lfu) Evict() string {
	if len(l.nodes) == 0 {
		return ""
	}
	if _, ok := l.freqMap[l.minFreq]; !ok {
		l.recomputeMin()
	}

	var victim *lfuNode
	for _, n := range l.freqMap[l.minFreq] {
		if victim == nil || n.seq < victim.seq {
			victim = n
		}
	}
	if victim == nil {
		return ""
	}
	l.drop(victim)
	return victim.key
}

func (l *lfu) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.drop(n)
	}
}

func (l *lfu) Len() int { return len(l.nodes) }

func (l *lfu) bump(n *lfuNode) {
	old := n.freq
	l.unbucket(n)
	n.freq++
	l.seq++
	n.seq = l.seq
	l.bucket(n.freq)[n.key] = n
	if l.minFreq == old {
		if _, ok := l.freqMap[old]; !ok {
			l.minFreq = n.freq
		}
	}
}

func (l *lfu) drop(n *lfuNode) {
	l.unbucket(n)
	delete(l.nodes, n.key)
	if _, ok := l.freqMap[l.minFreq]; !ok {
		l.minFreq = 0
	}
}

func (l *lfu) bucket(freq int) map[string]*lfuNode {
	b, ok := l.freqMap[freq]
	if !ok {
		b = make(map[string]*lfuNode)
		l.freqMap[freq] = b
	}
	return b
}

func (l *lfu) unbucket(n *lfuNode) {
	b := l.freqMap[n.freq]
	delete(b, n.key)
	if len(b) == 0 {
		delete(l.freqMap, n.freq)
	}
}

func (l *lfu) recomputeMin() {
	l.minFreq = 0
	for f := range l.freqMap {
		if l.minFreq == 0 || f < l.minFreq {
			l.minFreq = f
		}
	}
}
