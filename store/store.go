// Package store defines the backing-store abstraction used by memocache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no
// prepended/appended metadata, no re-encoding, no mutation).
//
// All consistency guarantees of memocache reduce to the store's atomicity:
// Incr in particular must be atomic with respect to concurrent Incr calls,
// because namespace invalidation is a bare increment with no read-then-write.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Incr when the key is absent. Callers rely on
// this being distinguishable from transport errors: incrementing a missing
// namespace counter is a benign no-op for the engine.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal byte store with TTLs and an atomic counter primitive.
// Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key (best-effort; deleting an absent key is not an error).
	Delete(ctx context.Context, key string) error

	// Incr atomically increments the decimal integer stored at key and
	// returns the new value. Returns ErrNotFound when the key is absent;
	// it must NOT create the key.
	Incr(ctx context.Context, key string) (int64, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
