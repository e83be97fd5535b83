// Package cache stores computed results (consensus labellings, rendered
// documents) keyed by a hash of their inputs.
//
// Four backends implement [Cache]:
//   - [FileCache]: one JSON entry file per key under a directory (CLI default)
//   - [SQLiteCache]: all entries in one SQLite database file
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer]; [ScopedKeyer] prefixes keys so several
// tenants or environments can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
