package notify

import "github.com/apex/log"

// LogListener writes each removal to the apex logger at debug level.
type LogListener struct{}

func (LogListener) OnRemove(key string, _ any, reason Reason) {
	log.WithFields(log.Fields{
		"key":    key,
		"reason": reason.String(),
	}).Debug("cache entry removed")
}

func (LogListener) Close() {}
