package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoGogDBD/inventory/internal/models"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisCache(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	cache := NewRedisCache(client, time.Minute)
	item := &models.Item{
		ID:        "redis-test-item",
		Name:      "USB Cable",
		Quantity:  4,
		Price:     2.5,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	item.UpdatedAt = item.CreatedAt
	client.Del(ctx, itemKeyPrefix+item.ID)

	_, ok := cache.Get(ctx, item.ID)
	assert.False(t, ok)

	cache.Set(ctx, item)
	got, ok := cache.Get(ctx, item.ID)
	require.True(t, ok)
	assert.Equal(t, item.Name, got.Name)
	assert.True(t, item.CreatedAt.Equal(got.CreatedAt))

	ttl, err := client.TTL(ctx, itemKeyPrefix+item.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	cache.Delete(ctx, item.ID)
	_, ok = cache.Get(ctx, item.ID)
	assert.False(t, ok)
}

func TestRedisCacheCorruptedEntry(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	cache := NewRedisCache(client, time.Minute)
	require.NoError(t, client.Set(ctx, itemKeyPrefix+"broken", "{not json", time.Minute).Err())

	_, ok := cache.Get(ctx, "broken")
	assert.False(t, ok)

	n, err := client.Exists(ctx, itemKeyPrefix+"broken").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
