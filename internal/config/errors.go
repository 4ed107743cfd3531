package config

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RoGogDBD/inventory/internal/retry"
)

// connectPolicy повторяет операцию при ошибках соединения с PostgreSQL: 1s, 2s, 4s.
var connectPolicy = retry.Policy{
	MaxRetries:  3,
	Backoff:     retry.NewBackoff(time.Second, 5*time.Second, false),
	ShouldRetry: IsRetriableError,
}

// GetRetryIntervals выполняет op, повторяя ее при ошибках соединения с БД.
func GetRetryIntervals(ctx context.Context, op func() error) error {
	return retry.Do(ctx, connectPolicy, op, func(err error, attempt int, wait time.Duration) {
		slog.Warn("retriable database error",
			"error", err,
			"attempt", attempt,
			"max_attempts", connectPolicy.MaxRetries+1,
			"retry_in", wait)
	})
}

// IsRetriableError сообщает, что ошибка относится к классу 08 (connection exception).
func IsRetriableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// IsDataError сообщает, что PostgreSQL отверг данные: класс 22 (data exception)
// или 23 (integrity constraint violation). Повтор такой операции не поможет.
func IsDataError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) < 2 {
		return false
	}
	class := pgErr.Code[:2]
	return class == "22" || class == "23"
}
