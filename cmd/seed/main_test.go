package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoGogDBD/inventory/internal/auth"
	"github.com/RoGogDBD/inventory/internal/repository"
)

func TestSeedUser(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemStorage()

	created, err := seedUser(ctx, store, "admin", "Manager@Inventory.com", "manager123", 4)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := store.GetUserByEmail(ctx, "manager@inventory.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "Inventory Manager", u.Role)
	ok, err := auth.CheckPassword(u.PasswordHash, "manager123")
	require.NoError(t, err)
	assert.True(t, ok)

	created, err = seedUser(ctx, store, "admin", "manager@inventory.com", "other-password", 4)
	require.NoError(t, err)
	assert.False(t, created)
}
