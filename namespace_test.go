package memocache

import (
	"context"
	"testing"
	"time"

	"github.com/unkn0wn-root/memocache/store/local"
)

func newTestEngine(t *testing.T) (*Engine, *local.Store) {
	t.Helper()
	st := local.New()
	e, err := New(Options{Store: st})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, st
}

// TestGenerationLazySeed: a namespace counter is absent until first
// referenced, then seeded once and stable across reads.
func TestGenerationLazySeed(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	if st.Len() != 0 {
		t.Fatalf("store not empty before first reference")
	}
	g1, err := e.Namespaces().Generation(ctx, Atom("tenants"))
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if g1 == 0 {
		t.Fatal("seed must be nonzero")
	}
	if _, ok, _ := st.Get(ctx, "tenants"); !ok {
		t.Fatal("counter not stored under the canonical namespace key")
	}
	g2, err := e.Namespaces().Generation(ctx, Atom("tenants"))
	if err != nil {
		t.Fatalf("Generation (second): %v", err)
	}
	if g1 != g2 {
		t.Fatalf("generation moved without invalidation: %d -> %d", g1, g2)
	}
}

// TestSeedDerivedFromClock pins the seed formula: time since epoch modulo a
// ten-year window, in nanoseconds.
func TestSeedDerivedFromClock(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	e.Namespaces().now = func() time.Time { return at }

	g, err := e.Namespaces().Generation(ctx, Atom("clock"))
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if want := at.UnixNano() % decade; g != want {
		t.Fatalf("seed = %d, want %d", g, want)
	}
}

// TestSeedWindow: raw seeds stay inside the decade window and track the
// injected clock.
func TestSeedWindow(t *testing.T) {
	e, _ := newTestEngine(t)
	reg := e.Namespaces()

	for _, at := range []time.Time{
		time.Unix(0, 1),
		time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		time.Unix(0, 0).Add(time.Duration(decade)), // wraps to zero
	} {
		reg.now = func() time.Time { return at }
		g := reg.seed()
		if g < 0 || g >= decade {
			t.Fatalf("seed(%v) = %d, outside [0, decade)", at, g)
		}
		if want := at.UnixNano() % decade; g != want {
			t.Fatalf("seed(%v) = %d, want %d", at, g, want)
		}
	}
}

// TestInvalidateAbsentIsNoop: invalidating a namespace with no counter does
// not raise and leaves the namespace unset; the next access seeds it.
func TestInvalidateAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	if err := e.InvalidateNamespace(ctx, "ghost"); err != nil {
		t.Fatalf("Invalidate on absent namespace: %v", err)
	}
	if st.Len() != 0 {
		t.Fatal("invalidate of absent namespace must not create the counter")
	}
	if _, err := e.Namespaces().Generation(ctx, Atom("ghost")); err != nil {
		t.Fatalf("seeding after no-op invalidate: %v", err)
	}
	if st.Len() != 1 {
		t.Fatal("counter should exist after first access")
	}
}

// TestInvalidateBumpsGeneration: an invalidation is one atomic increment;
// the packed prefix changes, nothing else is touched.
func TestInvalidateBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	reg := e.Namespaces()

	g1, err := reg.Generation(ctx, Atom("orders"))
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	p1, err := reg.Prefix(ctx, Atom("orders"))
	if err != nil {
		t.Fatalf("Prefix: %v", err)
	}
	if err := reg.Invalidate(ctx, Atom("orders")); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	g2, err := reg.Generation(ctx, Atom("orders"))
	if err != nil {
		t.Fatalf("Generation after bump: %v", err)
	}
	if g2 != g1+1 {
		t.Fatalf("generation %d -> %d, want +1", g1, g2)
	}
	p2, err := reg.Prefix(ctx, Atom("orders"))
	if err != nil {
		t.Fatalf("Prefix after bump: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("packed prefix unchanged across invalidation: %q", p1)
	}
}

// TestNamespaceNameIsAKeyInput: a namespace name is canonicalized like any
// other key input, with no generation prefix of its own.
func TestNamespaceNameIsAKeyInput(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	if _, err := e.Namespaces().Generation(ctx, Seq(Atom("user"), Atom(42))); err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "user.42"); !ok {
		t.Fatal("composite namespace name not canonicalized to user.42")
	}
}

// TestCorruptCounterReseeds: an unparseable counter value is treated as
// absent and reseeded rather than failing reads forever.
func TestCorruptCounterReseeds(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	if err := st.Set(ctx, "dirty", []byte("not-a-number"), 0); err != nil {
		t.Fatalf("inject: %v", err)
	}
	g, err := e.Namespaces().Generation(ctx, Atom("dirty"))
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if g == 0 {
		t.Fatal("expected fresh nonzero seed over corrupt counter")
	}
}
