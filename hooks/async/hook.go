// Package asynchook decouples hook callbacks from the engine's hot path.
// Events are queued to a bounded channel and delivered by worker
// goroutines; events that would block are dropped.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{OverflowEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	engine, _ := memocache.New(memocache.Options{
//	    Store: st,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/memocache"
)

type Hooks struct {
	inner memocache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ memocache.Hooks = (*Hooks)(nil)

func New(inner memocache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) KeyOverflowHashed(name string, rawLen int) {
	h.try(func() { h.inner.KeyOverflowHashed(name, rawLen) })
}
func (h *Hooks) NamespaceSeeded(nsKey string, gen int64) {
	h.try(func() { h.inner.NamespaceSeeded(nsKey, gen) })
}
func (h *Hooks) NamespaceAlreadyInvalid(nsKey string) {
	h.try(func() { h.inner.NamespaceAlreadyInvalid(nsKey) })
}
func (h *Hooks) StoreError(op, key string, err error) {
	h.try(func() { h.inner.StoreError(op, key, err) })
}
