package memocache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/unkn0wn-root/memocache/intpack"
	"github.com/unkn0wn-root/memocache/store"
)

// decade is the seed window. Seeds are time-since-epoch reduced modulo a
// ten-year span, in nanoseconds: compact enough to pack short, fine-grained
// enough that a reseed after eviction will not collide with entries written
// under the previous counter.
const decade = int64(10*365*24*3600) * int64(time.Second)

// NamespaceRegistry owns the generation counter per namespace name in the
// backing store. A namespace is itself a KeyInput; its canonical key is the
// storage key of its counter.
//
// The counter is seeded lazily on first reference and only ever moves
// forward, via the store's atomic increment. Two first-time seeders may
// race and one seed wins; that is benign. Concurrent invalidators must not
// race, which is why Invalidate never does a read-then-write.
type NamespaceRegistry struct {
	store store.Store
	keys  *KeyBuilder
	log   Logger
	hooks Hooks
	now   func() time.Time
}

// NewNamespaceRegistry wires a registry to a store and key builder.
// logger and hooks may be nil.
func NewNamespaceRegistry(st store.Store, keys *KeyBuilder, logger Logger, hooks Hooks) *NamespaceRegistry {
	return &NamespaceRegistry{
		store: st,
		keys:  keys,
		log:   coalesce[Logger](logger, NopLogger{}),
		hooks: coalesce[Hooks](hooks, NopHooks{}),
		now:   time.Now,
	}
}

// canonical serializes the namespace name through the key builder. There is
// no namespace recursion: the name's own key carries no generation prefix.
func (r *NamespaceRegistry) canonical(ns KeyInput) (string, error) {
	return r.keys.BuildKey(ns)
}

// seed derives a fresh counter from the clock, reduced into the decade
// window so it packs short and never lands on zero epoch boundaries twice.
func (r *NamespaceRegistry) seed() int64 {
	return r.now().UnixNano() % decade
}

// Generation returns the namespace's current generation counter, seeding it
// first if the store has none (or holds an unusable value).
func (r *NamespaceRegistry) Generation(ctx context.Context, ns KeyInput) (int64, error) {
	key, err := r.canonical(ns)
	if err != nil {
		return 0, err
	}
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if ok {
		g, perr := strconv.ParseInt(string(raw), 10, 64)
		if perr == nil && g != 0 {
			return g, nil
		}
		// zero or unparseable counter is as good as absent; reseed
		r.log.Debug("namespace counter unusable, reseeding", Fields{"ns": key})
	}
	g := r.seed()
	if err := r.store.Set(ctx, key, []byte(strconv.FormatInt(g, 10)), 0); err != nil {
		return 0, err
	}
	r.hooks.NamespaceSeeded(key, g)
	r.log.Debug("namespace seeded", Fields{"ns": key, "gen": g})
	return g, nil
}

// Prefix returns the packed generation for ns, the string prepended (with a
// ":" separator) to every key in the namespace.
func (r *NamespaceRegistry) Prefix(ctx context.Context, ns KeyInput) (string, error) {
	g, err := r.Generation(ctx, ns)
	if err != nil {
		return "", err
	}
	return intpack.Pack(g), nil
}

// Invalidate atomically bumps the namespace's generation, retiring every key
// built against the old value. O(1) in the number of member keys; nothing is
// enumerated or deleted.
//
// A namespace whose counter is absent from the store is already invalid:
// that case is a success and leaves the namespace unset, so the next access
// seeds a fresh counter.
func (r *NamespaceRegistry) Invalidate(ctx context.Context, ns KeyInput) error {
	key, err := r.canonical(ns)
	if err != nil {
		return err
	}
	g, err := r.store.Incr(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		r.hooks.NamespaceAlreadyInvalid(key)
		r.log.Debug("namespace already invalid", Fields{"ns": key})
		return nil
	}
	if err != nil {
		r.hooks.StoreError("incr", key, err)
		return err
	}
	r.log.Debug("namespace invalidated", Fields{"ns": key, "gen": g})
	return nil
}
