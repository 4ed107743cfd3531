package models

import "time"

// Типы событий об изменении позиций.
const (
	ItemCreated = "item.created"
	ItemUpdated = "item.updated"
	ItemDeleted = "item.deleted"
)

// ItemEvent описывает изменение позиции для внешних подписчиков.
// Для удаления Item содержит только ID.
type ItemEvent struct {
	Type       string    `json:"type"`
	Item       Item      `json:"item"`
	OccurredAt time.Time `json:"occurredAt"`
}
