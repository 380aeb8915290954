package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/http/middleware"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/ws"
)

// HealthHandler serves the ops surface. The database is optional; a nil
// pool makes readiness unconditional.
type HealthHandler struct {
	db      *pgxpool.Pool
	hub     *ws.Hub
	version string
	started time.Time
}

func NewHealthHandler(db *pgxpool.Pool, hub *ws.Hub, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		hub:     hub,
		version: version,
		started: time.Now(),
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	total, connected := h.hub.Sessions().Count()
	allowed, blocked := middleware.RLStats()

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"sessions": gin.H{
			"total":     total,
			"connected": connected,
		},
		"rooms": h.hub.RoomCount(),
		"rate_limiter": gin.H{
			"allowed": allowed,
			"blocked": blocked,
		},
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
