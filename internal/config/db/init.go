// Package db открывает пул PostgreSQL и применяет миграции схемы.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RoGogDBD/inventory/internal/config"
)

// NewPool открывает пул по cfg.DSN, дожидается ответа сервера и применяет миграции.
// Ошибки соединения повторяются по политике config.GetRetryIntervals.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	pool, err := connect(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	slog.Info("postgres pool ready",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns)

	applyMigrations := func() error { return RunMigrations(cfg.MigrationsPath, cfg.DSN) }
	if err := config.GetRetryIntervals(ctx, applyMigrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return pool, nil
}

func connect(ctx context.Context, poolCfg *pgxpool.Config) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := config.GetRetryIntervals(ctx, func() error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, nil
}
