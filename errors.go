package memocache

import "errors"

var (
	// ErrPrefixTooLong reports a fatal configuration error: the backend's
	// fixed key prefix alone meets or exceeds the maximum key length, so no
	// key can fit. Raised at key-build time, never swallowed.
	ErrPrefixTooLong = errors.New("memocache: backend key prefix leaves no room for keys")

	// ErrNegativeTTL reports a usage error: the resolved TTL is negative.
	// Raised at Wrap time, before any store access.
	ErrNegativeTTL = errors.New("memocache: negative TTL")
)
