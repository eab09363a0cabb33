package intpack

import (
	"math"
	"math/big"
	"testing"
)

// TestPackZero pins the anchor of the alphabet: zero packs to the single
// first symbol.
func TestPackZero(t *testing.T) {
	if got := Pack(0); got != "A" {
		t.Fatalf("Pack(0) = %q, want %q", got, "A")
	}
}

func TestPackKnownValues(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "a"},
		{63, "="},
		{64, "BA"},
		{65, "BB"},
		{-1, "-="},
		{-2, "-_"},
	}
	for _, c := range cases {
		if got := Pack(c.n); got != c.want {
			t.Errorf("Pack(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

// TestRoundTrip covers the promised property: Unpack(Pack(n)) == n for every
// int64, including 0, negatives, and extreme magnitudes.
func TestRoundTrip(t *testing.T) {
	samples := []int64{
		0, 1, 2, 63, 64, 65, 4095, 4096,
		-1, -2, -63, -64, -65, -4096,
		1 << 40, -(1 << 40),
		math.MaxInt64, math.MinInt64,
	}
	for _, n := range samples {
		s := Pack(n)
		got, err := Unpack(s)
		if err != nil {
			t.Fatalf("Unpack(Pack(%d)) = %q: %v", n, s, err)
		}
		if got != n {
			t.Errorf("round trip %d -> %q -> %d", n, s, got)
		}
	}
}

// TestPackShrinks sanity-checks the point of the package: packed output is
// shorter than decimal for large counters.
func TestPackShrinks(t *testing.T) {
	n := int64(1_700_000_000_000_000_000) // a nanosecond-scale counter
	if s := Pack(n); len(s) >= 19 {
		t.Fatalf("Pack(%d) = %q (len %d), want shorter than decimal", n, s, len(s))
	}
}

func TestUnpackRejectsUnknownSymbol(t *testing.T) {
	if _, err := Unpack("AB!"); err == nil {
		t.Fatal("expected error for symbol outside the alphabet")
	}
	if _, err := Unpack(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestBigRoundTrip(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 100) // 2^100
	samples := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(12345),
		big.NewInt(-12345),
		huge,
		new(big.Int).Neg(huge),
	}
	for _, n := range samples {
		s := PackBig(n)
		got, err := UnpackBig(s)
		if err != nil {
			t.Fatalf("UnpackBig(PackBig(%s)) = %q: %v", n, s, err)
		}
		if got.Cmp(n) != 0 {
			t.Errorf("big round trip %s -> %q -> %s", n, s, got)
		}
	}
}

// TestBigMatchesInt64 keeps the two code paths producing identical output.
func TestBigMatchesInt64(t *testing.T) {
	for _, n := range []int64{0, 1, 63, 64, -1, -65, 1 << 50} {
		if a, b := Pack(n), PackBig(big.NewInt(n)); a != b {
			t.Errorf("Pack(%d) = %q but PackBig = %q", n, a, b)
		}
	}
}
