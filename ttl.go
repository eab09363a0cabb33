package memocache

import (
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// ParseTTL parses a human-readable duration string into a TTL, accepting
// day and week units on top of the standard ones: "90s", "2h45m", "1d12h",
// "1w". Use it to feed WrapConfig.TTL from configuration.
func ParseTTL(s string) (time.Duration, error) {
	return str2duration.ParseDuration(s)
}

// Seconds converts a raw seconds count into a TTL.
func Seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}
