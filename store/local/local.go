// Package local provides an in-process Store backed by a plain map.
// It exists for tests and single-process deployments; it has no eviction
// beyond TTL expiry checked lazily on access.
package local

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/unkn0wn-root/memocache/store"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Store struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string]entry), now: time.Now}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		return nil, false, nil
	}
	return e.v, true, nil
}

// get must be called with mu held. Expired entries are dropped.
func (s *Store) get(key string) (entry, bool) {
	e, ok := s.m[key]
	if !ok {
		return entry{}, false
	}
	if !e.exp.IsZero() && s.now().After(e.exp) {
		delete(s.m, key)
		return entry{}, false
	}
	return e, true
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = entry{v: value, exp: exp}
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(key)
	if !ok {
		return 0, store.ErrNotFound
	}
	n, err := strconv.ParseInt(string(e.v), 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	e.v = []byte(strconv.FormatInt(n, 10))
	s.m[key] = e
	return n, nil
}

func (s *Store) Close(context.Context) error { return nil }

// Len reports the number of live entries. Intended for tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
