package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/memocache/store"
)

func TestIncrAbsentFailsDistinguishably(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Incr(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
	// the failed Incr must not create the key
	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatal("Incr created the key it failed on")
	}
}

func TestIncrCounts(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Set(ctx, "ctr", []byte("5"), 0); err != nil {
		t.Fatal(err)
	}
	for want := int64(6); want <= 8; want++ {
		n, err := s.Incr(ctx, "ctr")
		if err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Fatalf("Incr = %d, want %d", n, want)
		}
	}
	b, ok, _ := s.Get(ctx, "ctr")
	if !ok || string(b) != "8" {
		t.Fatalf("stored counter = %q ok=%v, want 8", b, ok)
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("fresh entry missing")
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expired entry still served")
	}
	// expired counters are absent for Incr too
	if err := s.Set(ctx, "c", []byte("1"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := s.Incr(ctx, "c"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Incr on expired = %v, want store.ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "k", []byte("v"), 0)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("deleted entry still served")
	}
	// deleting an absent key is not an error
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}
