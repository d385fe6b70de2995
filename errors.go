package cache

import "errors"

// ErrConfiguration is returned, wrapped with details, for settings the cache
// refuses to start with: a non-positive capacity, an unknown policy, a bad
// duration. Check it with errors.Is.
var ErrConfiguration = errors.New("invalid cache configuration")
