package middleware

import "github.com/prometheus/client_golang/prometheus"

// Per-endpoint limiter counters; the process-wide totals for /health live
// in stats.go.
var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Requests admitted by the HTTP rate limiters",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Requests rejected by the HTTP rate limiters",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests, RLBlocked)
}
