package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
)

const itemKeyPrefix = "item:"

// RedisCache - кеш позиций в Redis, общий для нескольких экземпляров сервиса.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, id string) (*models.Item, bool) {
	data, err := c.client.Get(ctx, itemKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("redis cache get failed", "item_id", id, "error", err)
		}
		return nil, false
	}

	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		logger.FromContext(ctx).Warn("redis cache entry is corrupted", "item_id", id, "error", err)
		c.Delete(ctx, id)
		return nil, false
	}
	return &item, true
}

func (c *RedisCache) Set(ctx context.Context, item *models.Item) {
	data, err := json.Marshal(item)
	if err != nil {
		logger.FromContext(ctx).Warn("redis cache marshal failed", "item_id", item.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, itemKeyPrefix+item.ID, data, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("redis cache set failed", "item_id", item.ID, "error", err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, itemKeyPrefix+id).Err(); err != nil {
		logger.FromContext(ctx).Warn("redis cache delete failed", "item_id", id, "error", err)
	}
}
