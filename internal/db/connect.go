package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/logger"
)

func Connect(dsn string) *pgxpool.Pool {
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}
