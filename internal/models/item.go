// Package models содержит доменные модели приложения.
package models

import (
	"strings"
	"time"
)

// Item описывает складскую позицию.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Value возвращает стоимость остатка позиции.
func (i Item) Value() float64 {
	return float64(i.Quantity) * i.Price
}

// ItemInput описывает изменяемые поля позиции при создании и обновлении.
type ItemInput struct {
	Name        string   `json:"name" validate:"required,notblank,min=2,max=200"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0,lte=1000000"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=10000000"`
	Description string   `json:"description" validate:"max=1000"`
	Category    string   `json:"category" validate:"max=100"`
}

// Normalize обрезает пробелы в строковых полях.
func (in *ItemInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
}

// Apply перезаписывает все изменяемые поля позиции значениями из in.
// Вызывается только после успешной валидации.
func (in ItemInput) Apply(item *Item) {
	item.Name = in.Name
	item.Quantity = *in.Quantity
	item.Price = *in.Price
	item.Description = in.Description
	item.Category = in.Category
}
