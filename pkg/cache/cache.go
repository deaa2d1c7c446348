// Package cache stores interpretation results and rendered diagrams.
//
// # Backends
//
//   - [FileCache]: sharded JSON files with expiry, the CLI default
//   - [MemoryCache]: a bounded in-process LRU, used by the API server
//   - [RedisCache]: shared between server replicas
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// All backends implement [Cache] and treat a missing or expired entry as a
// miss rather than an error.
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, so two identical
// descriptions share one entry no matter where they came from. Wrap a keyer
// with [NewScopedKeyer] to give tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached data and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default TTLs per entry type. Interpretations depend only on the source
// text and the grammar version baked into the key, so they live long.
const (
	TTLInterpret = 7 * 24 * time.Hour
	TTLRender    = 24 * time.Hour
)

// Key type labels reported to observability hooks.
const (
	KeyTypeInterpret = "interpret"
	KeyTypeRender    = "render"
)
