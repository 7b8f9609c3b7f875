// Package db bootstraps the PostgreSQL connection pool shared by every repository.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/config"
)

//go:embed schema.sql
var schema string

const (
	maxAttempts       = 5
	initialRetryDelay = time.Second
)

// PoolConfig translates the env settings into a pgxpool config: bounded pool,
// connect timeout and a server-side statement_timeout.
func PoolConfig(cfg config.Database) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pcfg.MaxConns = cfg.PoolSize
	pcfg.MaxConnIdleTime = time.Minute
	pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if cfg.QueryTimeout > 0 {
		pcfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.QueryTimeout.Milliseconds(), 10)
	}
	return pcfg, nil
}

// Connect opens the pool and pings it, retrying with exponential backoff
// (1s, 2s, 4s, ...) up to maxAttempts before giving up.
func Connect(ctx context.Context, cfg config.Database, log *slog.Logger) (*pgxpool.Pool, error) {
	pcfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connecting to postgres", "host", cfg.Host, "port", cfg.Port, "db", cfg.Name, "pool_size", cfg.PoolSize)

	var pool *pgxpool.Pool
	err = Retry(ctx, log, maxAttempts, initialRetryDelay, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, apperr.ConnectionFailed(err)
	}
	log.Info("postgres connection established")
	return pool, nil
}

// Retry runs fn until it succeeds or attempts are exhausted, sleeping
// initial*2^n between tries.
func Retry(ctx context.Context, log *slog.Logger, attempts int, initial time.Duration, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		delay := initial * time.Duration(1<<attempt)
		log.Warn("database connection failed, retrying",
			"err", err, "delay", delay, "attempt", attempt+1, "max_attempts", attempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Reset empties every table, leaving the schema in place.
func Reset(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `TRUNCATE billing, order_items, orders, products, customers`); err != nil {
		return fmt.Errorf("reset tables: %w", err)
	}
	return nil
}

// Pinger is the slice of *pgxpool.Pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}
