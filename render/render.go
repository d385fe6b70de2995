// Package render holds the content processors whose output is worth caching:
// terminal Markdown rendering and syntax highlighting. Every call goes through
// a shared cache, so re-rendering an unchanged message costs a map lookup.
package render

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/krisalay/smartcache/memo"
)

const (
	markdownPrefix = "md:"
	codePrefix     = "code:"
)

// fingerprint is the content part of a cache key.
func fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func memoOptions(prefix string, singleFlight bool) []memo.Option {
	opts := []memo.Option{memo.WithPrefix(prefix)}
	if singleFlight {
		opts = append(opts, memo.WithSingleFlight())
	}
	return opts
}
