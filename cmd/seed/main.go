// Команда seed создает учетную запись менеджера по умолчанию в PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/RoGogDBD/inventory/internal/auth"
	"github.com/RoGogDBD/inventory/internal/config"
	"github.com/RoGogDBD/inventory/internal/config/db"
	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/repository"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	username := flag.String("username", "admin", "Username of the seeded user")
	email := flag.String("email", "manager@inventory.com", "E-mail of the seeded user")
	password := flag.String("password", "manager123", "Password of the seeded user")
	dsn := flag.String("dsn", "", "Postgres DSN (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}
	if cfg.Database.DSN == "" {
		return errors.New("database DSN is not configured (DATABASE_DSN or -dsn)")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	created, err := seedUser(ctx, repository.NewPostgresStorage(pool), *username, *email, *password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	if created {
		slog.Info("default user created", "email", models.NormalizeEmail(*email), "role", models.DefaultRole)
	} else {
		slog.Info("default user already exists", "email", models.NormalizeEmail(*email))
	}
	return nil
}

// seedUser создает пользователя, если адрес еще не занят. Возвращает false, если пользователь уже есть.
func seedUser(ctx context.Context, users repository.UserStore, username, email, password string, cost int) (bool, error) {
	_, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return false, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return false, err
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        models.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         models.DefaultRole,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}
