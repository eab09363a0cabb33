package memocache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the engine calls them on
// hot paths. See hooks/async for a buffered fan-out wrapper and sloghooks
// for a slog-backed sink.
type Hooks interface {
	// A derived key exceeded the length budget and was replaced by a
	// truncated digest. rawLen is the length before hashing.
	KeyOverflowHashed(name string, rawLen int)

	// A namespace counter was lazily seeded.
	NamespaceSeeded(nsKey string, gen int64)

	// Invalidate hit an absent counter; treated as success.
	NamespaceAlreadyInvalid(nsKey string)

	// The backing store failed an operation. The error is also propagated
	// to the caller; the hook exists for out-of-band observability.
	// op is one of "get", "set", "delete", "incr".
	StoreError(op, key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) KeyOverflowHashed(string, int)    {}
func (NopHooks) NamespaceSeeded(string, int64)    {}
func (NopHooks) NamespaceAlreadyInvalid(string)   {}
func (NopHooks) StoreError(string, string, error) {}
