package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/config"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/db"
	httpServer "github.com/CidyChou/jackaroo-queen-sub001/internal/http"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/http/middleware"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/logger"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/repository"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/service"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/session"
	"github.com/CidyChou/jackaroo-queen-sub001/internal/ws"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool = db.Connect(cfg.DatabaseURL)
		defer pool.Close()
	} else {
		logger.Warn("DATABASE_URL not set, match history disabled")
	}

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	sessions := session.NewManager(session.ReconnectWindow)

	var matchRepo *repository.MatchRepository
	var recorder ws.MatchRecorder
	if pool != nil {
		matchRepo = repository.NewMatchRepository(pool)
		recorder = matchRepo
	}

	hub := ws.NewHub(sessions, recorder, cfg.AutoPlay)
	hub.StartCleanup(30*time.Second, 5*time.Minute)

	r := gin.Default()

	// CORS for browser clients on another origin
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, cfg, pool, hub, matchRepo, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "auto_play", cfg.AutoPlay)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
