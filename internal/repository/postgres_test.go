package repository

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/RoGogDBD/inventory/internal/config/db"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/query"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (connStr string, terminate func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("WARNING: postgres container setup panicked: %v\n", r)
			connStr, terminate = "", func() {}
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("inventory"),
		postgres.WithUsername("inventory"),
		postgres.WithPassword("inventory"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	if err := db.RunMigrations("file://../../migrations", connStr); err != nil {
		fmt.Printf("WARNING: Failed to run migrations: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func newTestPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	if testDBConnString == "" {
		t.Skip("postgres container is not available")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, testDBConnString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE items, users")
	require.NoError(t, err)
	return NewPostgresStorage(pool)
}

func TestPostgresStorageItems(t *testing.T) {
	ctx := context.Background()
	s := newTestPostgres(t)
	require.NoError(t, s.Ping(ctx))

	created, err := s.Create(ctx, input("USB Cable", 3, 10, "", "Electronics"))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	for _, in := range []models.ItemInput{
		input("Adapter", 20, 20, "HDMI cable 2m", "electronics"),
		input("Hammer", 0, 9.99, "", "Tools"),
		input("Drill", 12, 20.01, "", ""),
	} {
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "USB Cable", got.Name)
	assert.InDelta(t, 10.0, got.Price, 1e-9)

	_, err = s.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrItemNotFound)

	items, total, err := s.List(ctx, query.Build(query.Params{Search: "CABLE"}, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{"USB Cable", "Adapter"}, names(items))

	items, total, err = s.List(ctx, query.Build(query.Params{MinPrice: "10", MaxPrice: "20", SortBy: "price", SortOrder: "asc"}, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"USB Cable", "Adapter"}, names(items))

	items, total, err = s.List(ctx, query.Build(query.Params{SortBy: "quantity", SortOrder: "asc", Page: "2", Limit: "3"}, 0))
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"Adapter"}, names(items))

	low, err := s.LowStock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hammer", "USB Cable"}, names(low))

	updated, err := s.Update(ctx, created.ID, input("USB-C Cable", 8, 12.5, "", ""))
	require.NoError(t, err)
	assert.Equal(t, "USB-C Cable", updated.Name)
	assert.Empty(t, updated.Category)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	all, err := s.All(ctx)
	require.NoError(t, err)
	stats := query.ComputeDashboardStats(all)
	assert.Equal(t, 4, stats.TotalItems)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), models.ErrItemNotFound)
}

func TestPostgresStoragePricePrecision(t *testing.T) {
	ctx := context.Background()
	s := newTestPostgres(t)

	created, err := s.Create(ctx, input("Resistor", 100, 9.999, "", "Electronics"))
	require.NoError(t, err)
	assert.Equal(t, 9.999, created.Price)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.999, got.Price)

	items, total, err := s.List(ctx, query.Build(query.Params{MinPrice: "10"}, 0))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	mem := NewMemStorage()
	_, err = mem.Create(ctx, input("Resistor", 100, 9.999, "", "Electronics"))
	require.NoError(t, err)
	_, memTotal, err := mem.List(ctx, query.Build(query.Params{MinPrice: "10"}, 0))
	require.NoError(t, err)
	assert.Equal(t, memTotal, total)
}

func TestPostgresStorageUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestPostgres(t)

	u := &models.User{
		ID:           "6f1c1b9e-2a0c-4a55-9a57-3f1f0c7a2b10",
		Username:     "admin",
		Email:        "manager@inventory.com",
		PasswordHash: "hash",
		Role:         models.DefaultRole,
	}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	dup := *u
	dup.ID = "0d6b7f5e-8f7a-4c0e-9b8c-1b2a3c4d5e6f"
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), models.ErrEmailTaken)

	got, err := s.GetUserByEmail(ctx, "Manager@Inventory.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	_, err = s.GetUserByID(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
