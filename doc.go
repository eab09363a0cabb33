// Package memocache derives deterministic, length-bounded cache keys from
// arbitrary call arguments and memoizes producers against a pluggable
// backing store, with O(1) invalidation of whole key groups ("namespaces")
// via per-namespace generation counters.
//
// Components:
//   - Store: minimal byte store with TTL and atomic increment
//     (e.g. Redis, BigCache, Ristretto, or the in-process local store).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - KeyBuilder: canonicalizes structured input into one bounded key string.
//   - NamespaceRegistry: generation counter per namespace; bumping the
//     counter retires every key built against the old value without
//     touching those keys.
//   - Engine / Memo[V]: get-or-compute-and-store around a producer.
//
// Keys:
//
//	<atom>.<atom>...           - plain entries
//	<packedGen>:<atom>...      - namespaced entries
//
// Keys are ASCII-safe (control and whitespace bytes are stripped) and never
// exceed the configured maximum length (250 bytes by default, the memcached
// protocol limit). Keys that would overflow the limit are replaced by a
// truncated content digest.
//
// Invalidation pattern:
//
//	memo, _ := memocache.Wrap(engine, memocache.WrapConfig[string]{
//	    Name:      "user_profile",
//	    Namespace: "profiles",
//	}, producer)
//	v, _ := memo.Call(ctx, userID)                  // compute + cache
//	_ = engine.InvalidateNamespace(ctx, "profiles") // one INCR, all keys stale
package memocache
