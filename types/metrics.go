package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when Get returns a live value.
	Hit()

	// Miss is called when Get finds nothing, or finds an entry that already expired.
	Miss()

	// Eviction is called when a key is removed because the byte budget is exhausted,
	// including values too large to be retained at all.
	Eviction()

	// Expire is called when a key is removed because it has passed its TTL.
	Expire()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

The engine falls back to it when no Metrics is configured, so the cache
never has to nil-check its metrics sink.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}
