package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/RoGogDBD/inventory"

// Metrics содержит доменные счетчики сервиса.
type Metrics struct {
	itemsMutated  metric.Int64Counter
	itemsImported metric.Int64Counter
}

// NewMetrics регистрирует счетчики в глобальном MeterProvider.
// Если метрики отключены, провайдер no-op и запись ничего не стоит.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	mutated, err := meter.Int64Counter("inventory.items.mutations",
		metric.WithDescription("Number of item create/update/delete operations"))
	if err != nil {
		return nil, err
	}
	imported, err := meter.Int64Counter("inventory.items.imports",
		metric.WithDescription("Number of processed item import messages by outcome"))
	if err != nil {
		return nil, err
	}
	return &Metrics{itemsMutated: mutated, itemsImported: imported}, nil
}

// ItemMutated учитывает изменение позиции: op - "create", "update" или "delete".
func (m *Metrics) ItemMutated(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.itemsMutated.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// ItemImported учитывает обработанное сообщение импорта: outcome - "ok", "invalid" или "failed".
func (m *Metrics) ItemImported(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.itemsImported.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
