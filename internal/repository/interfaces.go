// Package repository содержит хранилища позиций и пользователей и кеш позиций.
package repository

import (
	"context"

	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/query"
)

// ItemReader описывает чтение позиций.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	// List возвращает страницу позиций и общее число позиций, подходящих под фильтр.
	List(ctx context.Context, q query.ListQuery) ([]models.Item, int, error)
	All(ctx context.Context) ([]models.Item, error)
	// LowStock возвращает позиции с остатком меньше threshold по возрастанию остатка.
	LowStock(ctx context.Context, threshold int) ([]models.Item, error)
}

// ItemWriter описывает изменение позиций.
type ItemWriter interface {
	Create(ctx context.Context, in models.ItemInput) (*models.Item, error)
	// Update перезаписывает все изменяемые поля позиции.
	Update(ctx context.Context, id string, in models.ItemInput) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

// ItemStore описывает операции хранилища позиций.
type ItemStore interface {
	ItemReader
	ItemWriter
	Ping(ctx context.Context) error
}

// UserStore описывает операции хранилища пользователей.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ItemCache описывает кеш позиций по идентификатору. Ошибки кеша не возвращаются:
// промах и недоступность кеша для вызывающего равнозначны.
type ItemCache interface {
	Get(ctx context.Context, id string) (*models.Item, bool)
	Set(ctx context.Context, item *models.Item)
	Delete(ctx context.Context, id string)
}
