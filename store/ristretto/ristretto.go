// Package ristretto adapts dgraph-io/ristretto to the memocache store contract.
//
// Ristretto buffers writes and may reject entries under pressure, so a
// freshly seeded generation counter can briefly read as missing; the
// registry then reseeds, which is benign. Incr is serialized by an
// in-process mutex and calls Wait so the increment is visible to the next
// read. Counters are atomic only within a single process; use the Redis
// store for cross-replica invalidation.
package ristretto

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/memocache/store"
)

type Store struct {
	c      *rc.Cache
	incrMu sync.Mutex
}

var _ store.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl > 0 {
		s.c.SetWithTTL(key, value, int64(len(value)), ttl)
	} else {
		s.c.Set(key, value, int64(len(value)))
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.incrMu.Lock()
	defer s.incrMu.Unlock()
	v, ok := s.c.Get(key)
	if !ok {
		return 0, store.ErrNotFound
	}
	b, _ := v.([]byte)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	raw := []byte(strconv.FormatInt(n, 10))
	s.c.Set(key, raw, int64(len(raw)))
	s.c.Wait()
	return n, nil
}

func (s *Store) Close(context.Context) error {
	s.c.Close()
	return nil
}
