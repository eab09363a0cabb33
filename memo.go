package memocache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/intpack"
)

// autoTag is the fixed leading atom of auto-derived keys.
const autoTag = "memo"

// Identifiable lets a value contribute a stable identity to auto-derived
// keys. When the first call argument implements it, its concrete type name
// and CacheID join the key and the argument itself is not serialized.
//
// This is the explicit, typed replacement for sniffing "is this a bound
// method receiver with a primary key".
type Identifiable interface {
	CacheID() string
}

// Producer is the caller-supplied computation being memoized. It runs to
// completion or failure exactly as the caller's own execution model
// dictates; the engine imposes no timeout of its own.
type Producer[V any] func(ctx context.Context, args ...any) (V, error)

// WrapConfig registers a producer with the engine.
//
// Name is the required stable identity token; it distinguishes producers
// that would otherwise derive identical keys. Version is an optional tag
// folded into the key fingerprint: bump it when the producer's logic
// changes and every previously cached entry goes stale without manual
// invalidation.
type WrapConfig[V any] struct {
	Name    string
	Version string

	// Keys is the explicit key spec. Elements pass through Input; a
	// resolver element is invoked once per call with the call's own
	// arguments and replaced by its result. If nil, a key is auto-derived
	// from Name, the arguments, and the Name+Version fingerprint.
	Keys []any

	// Namespace tags every key of this producer with a namespace whose
	// generation prefix is fetched per call. Accepts anything Input does,
	// including a resolver for argument-dependent namespaces. Resolvers
	// must be deterministic.
	Namespace any

	// TTL for stored values. 0 means no expiry (the store's own policy
	// applies); negative is a usage error. See ParseTTL and Seconds.
	TTL time.Duration

	// Codec serializes produced values. nil => Msgpack.
	Codec codec.Codec[V]
}

// Memo is a memoized producer. All methods are safe for concurrent use.
type Memo[V any] struct {
	e       *Engine
	fn      Producer[V]
	name    string
	keySpec []KeyInput // nil => auto-derive
	ns      KeyInput
	hasNS   bool
	ttl     time.Duration
	codec   codec.Codec[V]
	fp      string // packed Name+Version fingerprint
}

// Wrap registers fn under cfg and returns the memoized producer.
// A negative TTL fails here, before any store access.
func Wrap[V any](e *Engine, cfg WrapConfig[V], fn Producer[V]) (*Memo[V], error) {
	if e == nil {
		return nil, fmt.Errorf("memocache: engine is required")
	}
	if fn == nil {
		return nil, fmt.Errorf("memocache: producer is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("memocache: name is required")
	}
	if cfg.TTL < 0 {
		return nil, ErrNegativeTTL
	}

	m := &Memo[V]{
		e:     e,
		fn:    fn,
		name:  cfg.Name,
		ttl:   cfg.TTL,
		codec: cfg.Codec,
		fp:    intpack.Pack(int64(xxhash.Sum64String(cfg.Name + "\x00" + cfg.Version))),
	}
	if m.codec == nil {
		m.codec = codec.Msgpack[V]{}
	}
	if cfg.Keys != nil {
		m.keySpec = make([]KeyInput, len(cfg.Keys))
		for i, k := range cfg.Keys {
			m.keySpec[i] = Input(k)
		}
	}
	if cfg.Namespace != nil {
		m.ns = Input(cfg.Namespace)
		m.hasNS = true
	}
	return m, nil
}

// Call returns the cached value for args, or computes, stores, and returns
// it. Two callers racing on the same missing key both compute and both
// write; last write wins. Store and serialization failures propagate
// unchanged, with no retries.
func (m *Memo[V]) Call(ctx context.Context, args ...any) (V, error) {
	var zero V
	key, err := m.Key(ctx, args...)
	if err != nil {
		return zero, err
	}
	raw, ok, err := m.e.store.Get(ctx, key)
	if err != nil {
		m.e.hooks.StoreError("get", key, err)
		return zero, err
	}
	if ok {
		return m.codec.Decode(raw)
	}
	v, err := m.fn(ctx, args...)
	if err != nil {
		return zero, err
	}
	payload, err := m.codec.Encode(v)
	if err != nil {
		return zero, err
	}
	if err := m.e.store.Set(ctx, key, payload, m.ttl); err != nil {
		m.e.hooks.StoreError("set", key, err)
		return zero, err
	}
	return v, nil
}

// Forget deletes the entry Call would have used for args. It only hits the
// right entry when invoked with the same arguments (and the Memo was built
// with the same Name/Version/Keys/Namespace) that populated it.
func (m *Memo[V]) Forget(ctx context.Context, args ...any) error {
	key, err := m.Key(ctx, args...)
	if err != nil {
		return err
	}
	if err := m.e.store.Delete(ctx, key); err != nil {
		m.e.hooks.StoreError("delete", key, err)
		return err
	}
	return nil
}

// Key derives the cache key Call uses for args. Exposed for diagnostics and
// for callers issuing their own store operations.
func (m *Memo[V]) Key(ctx context.Context, args ...any) (string, error) {
	in := m.input(args)
	raw := m.e.keys.render(in)
	if m.hasNS {
		prefix, err := m.e.ns.Prefix(ctx, resolve(m.ns, args))
		if err != nil {
			return "", err
		}
		raw = prefix + ":" + raw
	}
	key, hashed, err := m.e.keys.boundDetail(raw)
	if err != nil {
		return "", err
	}
	if hashed {
		m.e.hooks.KeyOverflowHashed(m.name, len(raw))
		m.e.log.Debug("key over budget, digest substituted", Fields{"name": m.name, "rawLen": len(raw)})
	}
	return key, nil
}

// input assembles the key atoms for one call: the resolved explicit spec,
// or the auto-derived atom list.
func (m *Memo[V]) input(args []any) KeyInput {
	if m.keySpec != nil {
		parts := make([]KeyInput, len(m.keySpec))
		for i, k := range m.keySpec {
			parts[i] = resolve(k, args)
		}
		return Seq(parts...)
	}
	parts := make([]KeyInput, 0, len(args)+5)
	parts = append(parts, Atom(autoTag), Atom(m.name))
	rest := args
	if len(args) > 0 {
		if id, ok := args[0].(Identifiable); ok {
			parts = append(parts, Atom(fmt.Sprintf("%T", id)), Atom(id.CacheID()))
			rest = args[1:]
		}
	}
	for _, a := range rest {
		parts = append(parts, Input(a))
	}
	// fingerprint last: unreadable, so it should not push the readable
	// part of the key out of view
	parts = append(parts, Atom(m.fp))
	return Seq(parts...)
}
