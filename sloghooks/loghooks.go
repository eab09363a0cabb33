// Package sloghooks sinks engine events into a slog.Logger, with sampling
// for the per-call overflow event.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/memocache"
)

type Options struct {
	// OverflowEvery samples key-overflow logs; 0/1 = log all.
	OverflowEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	overflowCtr atomic.Uint64
}

var _ memocache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) KeyOverflowHashed(name string, rawLen int) {
	if h.l == nil || !sample(h.opts.OverflowEvery, &h.overflowCtr) {
		return
	}
	h.l.Debug("memocache.key_overflow_hashed",
		"name", name,
		"raw_len", rawLen)
}

func (h *Hooks) NamespaceSeeded(nsKey string, gen int64) {
	if h.l == nil {
		return
	}
	h.l.Debug("memocache.namespace_seeded",
		"ns", nsKey,
		"gen", gen)
}

func (h *Hooks) NamespaceAlreadyInvalid(nsKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("memocache.namespace_already_invalid",
		"ns", nsKey)
}

func (h *Hooks) StoreError(op, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memocache.store_error",
		"op", op,
		"key", h.redact(key),
		"err", err)
}
