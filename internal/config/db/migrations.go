package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // регистрация драйвера Postgres
	_ "github.com/golang-migrate/migrate/v4/source/file"       // регистрация файлового источника
	_ "github.com/lib/pq"                                      // регистрация драйвера Postgres для миграций
)

// RunMigrations применяет миграции из sourceURL (например, file://./migrations).
func RunMigrations(sourceURL, dsn string) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("failed to close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	slog.Info("applying migrations", "source", sourceURL)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no new migrations to apply, database is up-to-date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	slog.Info("migrations applied successfully")
	return nil
}
