package memocache

import (
	"testing"
	"time"
)

func TestParseTTL(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"90s", 90 * time.Second},
		{"2h45m", 2*time.Hour + 45*time.Minute},
		{"1d", 24 * time.Hour},
		{"1d12h", 36 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseTTL(c.in)
		if err != nil {
			t.Errorf("ParseTTL(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTTL(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseTTL("soon"); err == nil {
		t.Error("ParseTTL accepted garbage")
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(90); got != 90*time.Second {
		t.Fatalf("Seconds(90) = %v", got)
	}
}
