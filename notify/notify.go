package notify

/*
This file defines what happens when an entry leaves the cache.

Different callers care about removals in different ways:
- Some want to release resources synchronously
- Some only want to log or count, and must never slow the cache down

Instead of hard-coding one behavior, the cache reports every removal to a Listener.
*/

// Reason says why an entry left the cache.
type Reason int

const (
	// Evicted: the byte budget was exceeded.
	Evicted Reason = iota
	// Expired: the TTL elapsed and the entry was found on read or sweep.
	Expired
	// Deleted: removed explicitly.
	Deleted
	// Replaced: a Set for the same key overwrote it.
	Replaced
	// Cleared: dropped by Clear.
	Cleared
	// Oversize: the value alone is larger than the whole budget and was not retained.
	Oversize
)

func (r Reason) String() string {
	switch r {
	case Evicted:
		return "evicted"
	case Expired:
		return "expired"
	case Deleted:
		return "deleted"
	case Replaced:
		return "replaced"
	case Cleared:
		return "cleared"
	case Oversize:
		return "oversize"
	default:
		return "unknown"
	}
}

/*
Listener is the contract all removal listeners follow.

The cache calls OnRemove after it has released its lock, so a listener may
call back into the cache.
*/
type Listener interface {
	OnRemove(key string, value any, reason Reason)

	// Close is called when the cache is shutting down.
	Close()
}

// Event is one removal, as delivered to Sync and Async callbacks.
type Event struct {
	Key    string
	Value  any
	Reason Reason
}

// Multi fans a removal out to several listeners in order.
type Multi []Listener

func (m Multi) OnRemove(key string, value any, reason Reason) {
	for _, l := range m {
		l.OnRemove(key, value, reason)
	}
}

func (m Multi) Close() {
	for _, l := range m {
		l.Close()
	}
}
