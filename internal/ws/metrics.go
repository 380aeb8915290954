package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricRoomsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rooms_active",
		Help: "Rooms currently registered in the hub",
	})
	metricGamesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "games_completed_total",
		Help: "Matches played to a winner",
	})
	metricIntentsBlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "game_intents_blocked_total",
		Help: "Game intents rejected by the per-session rate limiter",
	})
)

func init() {
	prometheus.MustRegister(metricRoomsActive)
	prometheus.MustRegister(metricGamesCompleted)
	prometheus.MustRegister(metricIntentsBlocked)
}
