package cache

import "errors"

// ErrBackend is returned for cache backend failures (connection refused,
// timeouts, protocol errors).
var ErrBackend = errors.New("cache backend error")
