// Package kafka публикует события об изменении позиций и принимает позиции на импорт.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/RoGogDBD/inventory/internal/models"
)

// MessageWriter - часть kafka.Writer, которую использует пакет.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter создает writer для topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Publisher публикует ItemEvent в JSON. Ключ сообщения - ID позиции,
// поэтому события одной позиции попадают в одну партицию.
type Publisher struct {
	w MessageWriter
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{w: w}
}

func (p *Publisher) Publish(ctx context.Context, ev models.ItemEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal item event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Item.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write item event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
