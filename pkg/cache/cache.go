// Package cache stores rendered artifacts and preview documents.
//
// # Backends
//
//   - [NullCache] never stores anything (caching disabled)
//   - [MemoryCache] keeps entries in process, for the preview server and tests
//   - [FileCache] writes one file per entry under a directory, for the CLI
//   - [RedisCache] shares entries between server instances
//
// # Keys
//
// A [Keyer] builds every key so backends never see ad-hoc strings:
//
//	render:<format>:<sha256 of input>   rendered artifacts, e.g. DOT to SVG
//	diagram:<id>:<notation>             documents stored by the preview server
//
// [ScopedKeyer] prefixes all keys, which keeps several tenants or
// environments apart in one Redis database.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLRender applies to rendered artifacts. Rendering is deterministic,
	// so entries only expire to bound the cache size.
	TTLRender = 7 * 24 * time.Hour

	// TTLDiagram applies to documents stored by the preview server.
	TTLDiagram = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey returns the key of the artifact rendered from input in the
	// given output format.
	RenderKey(format string, input []byte) string

	// DiagramKey returns the key of a stored document.
	DiagramKey(id, notation string) string
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey returns "render:<format>:<sha256(input)>".
func (DefaultKeyer) RenderKey(format string, input []byte) string {
	return "render:" + format + ":" + Hash(input)
}

// DiagramKey returns "diagram:<id>:<notation>".
func (DefaultKeyer) DiagramKey(id, notation string) string {
	return "diagram:" + id + ":" + notation
}

var _ Keyer = DefaultKeyer{}

// NullCache never stores anything. It disables caching without nil checks
// at the call sites.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() *NullCache {
	return &NullCache{}
}

// Get always reports a miss.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
