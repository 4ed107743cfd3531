package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/RoGogDBD/inventory/internal/models"
)

// LRUCache - кеш позиций в памяти с вытеснением давно неиспользуемых и TTL.
type LRUCache struct {
	lru *expirable.LRU[string, models.Item]
}

// NewLRUCache создает кеш на maxItems позиций. ttl <= 0 отключает истечение.
func NewLRUCache(maxItems int, ttl time.Duration) *LRUCache {
	return &LRUCache{lru: expirable.NewLRU[string, models.Item](maxItems, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, id string) (*models.Item, bool) {
	item, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return &item, true
}

func (c *LRUCache) Set(_ context.Context, item *models.Item) {
	c.lru.Add(item.ID, *item)
}

func (c *LRUCache) Delete(_ context.Context, id string) {
	c.lru.Remove(id)
}

// Len возвращает число позиций в кеше.
func (c *LRUCache) Len() int {
	return c.lru.Len()
}

// NoopCache ничего не хранит.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*models.Item, bool) { return nil, false }
func (NoopCache) Set(context.Context, *models.Item)                {}
func (NoopCache) Delete(context.Context, string)                   {}
