package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/config"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/http/handlers"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/http/middleware"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/repository"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/ws"
)

func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *pgxpool.Pool, hub *ws.Hub, matchRepo *repository.MatchRepository, version string) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	healthHandler := handlers.NewHealthHandler(db, hub, version)
	matchHandler := handlers.NewMatchHandler(matchRepo)

	// ops surface, never rate limited
	r.GET("/health", healthHandler.Health)
	r.GET("/livez", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	v1.POST("/auth/guest", handlers.GuestAuth)
	v1.GET("/matches", matchHandler.Recent)

	// websocket upgrades get the in-process limiter; one upgrade per
	// connection means Redis buys nothing here
	r.GET("/ws", middleware.SimpleRateLimit(cfg.WSRateLimit, cfg.WSRateWindow), handlers.WS(hub))
}
