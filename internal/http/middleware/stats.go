package middleware

import "sync/atomic"

var (
	rlAllowed atomic.Uint64
	rlBlocked atomic.Uint64
)

// RLStats reports how many requests the limiters passed and blocked since
// process start. Surfaced on /health next to the Prometheus counters.
func RLStats() (allowed, blocked uint64) {
	return rlAllowed.Load(), rlBlocked.Load()
}
