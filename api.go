package memocache

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/memocache/store"
)

// Options tune the engine. Only Store is required; others have sensible
// defaults. There is no ambient global store: every dependency is injected
// here.
type Options struct {
	// Required
	Store store.Store

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// MaxKeyLength bounds every derived key, including any backend-added
	// fixed prefix. 0 => 250 (the memcached protocol limit).
	MaxKeyLength int

	// PrefixLength is the length of the fixed prefix the backend prepends
	// to stored keys, if any. It eats into the key budget.
	PrefixLength int

	// FlattenDepth is how many levels of nesting below the top-level input
	// are expanded element-wise; deeper sequences are stringified whole.
	// 0 => 1. Pass a negative value for no flattening below the top.
	FlattenDepth int
}

// Engine orchestrates key derivation, namespace generations, and
// get-or-compute-and-store. It performs no in-process locking for
// cross-process consistency and never suppresses duplicate computations:
// two callers racing on the same missing key both compute and both write.
type Engine struct {
	store store.Store
	keys  *KeyBuilder
	ns    *NamespaceRegistry
	log   Logger
	hooks Hooks
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("memocache: store is required")
	}
	logger := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})
	kb := NewKeyBuilder(opts.MaxKeyLength, opts.PrefixLength, opts.FlattenDepth)
	return &Engine{
		store: opts.Store,
		keys:  kb,
		ns:    NewNamespaceRegistry(opts.Store, kb, logger, hooks),
		log:   logger,
		hooks: hooks,
	}, nil
}

// Keys exposes the engine's key builder, for callers deriving keys outside
// a Memo (e.g. request handlers composing their own atom lists).
func (e *Engine) Keys() *KeyBuilder { return e.keys }

// Namespaces exposes the engine's namespace registry.
func (e *Engine) Namespaces() *NamespaceRegistry { return e.ns }

// InvalidateNamespace retires every key in ns with a single atomic
// increment. ns accepts anything Input does.
func (e *Engine) InvalidateNamespace(ctx context.Context, ns any) error {
	return e.ns.Invalidate(ctx, Input(ns))
}

// Close releases the underlying store.
func (e *Engine) Close(ctx context.Context) error {
	return e.store.Close(ctx)
}
