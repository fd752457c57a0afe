// Package database manages the PostgreSQL connection pool backing the
// crisis event audit log.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cvmhw/rogercore/config"
	"github.com/cvmhw/rogercore/internal/logger"
)

// DB represents a database connection
type DB struct {
	pool *pgxpool.Pool
	cfg  config.DatabaseConfig
}

// New creates a new database connection. When no URL is configured the DB is
// unconfigured and callers fall back to in-memory storage.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if cfg.URL == "" {
		logger.Info("DATABASE_URL not set; using in-memory audit store only")
		return &DB{pool: nil, cfg: cfg}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	logger.Info("Database connection established",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
	)

	return &DB{pool: pool, cfg: cfg}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	if d.pool != nil {
		d.pool.Close()
		logger.Info("Database connection closed")
	}
}

// IsConfigured reports whether a database URL was provided.
func (d *DB) IsConfigured() bool {
	return d.pool != nil
}

// Pool exposes the underlying pool for stores.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Health checks database connectivity
func (d *DB) Health(ctx context.Context) error {
	if d.pool == nil {
		return nil
	}
	return d.pool.Ping(ctx)
}

// Migrate creates the audit schema when it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	if d.pool == nil {
		return nil
	}

	_, err := d.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS crisis_events (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			session_id TEXT NOT NULL,
			user_text TEXT NOT NULL,
			crisis_type TEXT NOT NULL,
			severity TEXT NOT NULL,
			response_text TEXT NOT NULL,
			detection_method TEXT NOT NULL,
			evidence JSONB,
			city TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			lon DOUBLE PRECISION NOT NULL DEFAULT 0,
			notification_status TEXT NOT NULL DEFAULT 'pending'
		);
		CREATE INDEX IF NOT EXISTS idx_crisis_events_session ON crisis_events (session_id);
		CREATE INDEX IF NOT EXISTS idx_crisis_events_timestamp ON crisis_events (timestamp DESC);
	`)
	if err != nil {
		return fmt.Errorf("migrate crisis_events: %w", err)
	}
	return nil
}
