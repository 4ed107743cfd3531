package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/RoGogDBD/inventory/internal/config"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/repository"
	"github.com/RoGogDBD/inventory/internal/retry"
	"github.com/RoGogDBD/inventory/internal/telemetry"
	"github.com/RoGogDBD/inventory/internal/validation"
)

// Исходы обработки сообщения импорта.
const (
	OutcomeImported = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// Заголовки сообщения в DLQ.
const (
	HeaderError    = "x-import-error"
	HeaderOutcome  = "x-import-outcome"
	HeaderAttempts = "x-import-attempts"
)

// Importer создает позиции из сообщений топика импорта.
// Невалидные сообщения и сообщения, которые не удалось сохранить после всех повторов,
// отправляются в DLQ.
type Importer struct {
	store    repository.ItemWriter
	cache    repository.ItemCache
	dlq      MessageWriter
	policy   retry.Policy
	validate *validation.Validator
	metrics  *telemetry.Metrics
	log      *slog.Logger
}

func NewImporter(store repository.ItemWriter, cache repository.ItemCache, dlq MessageWriter, cfg config.KafkaConfig, metrics *telemetry.Metrics) *Importer {
	if cache == nil {
		cache = repository.NoopCache{}
	}
	return &Importer{
		store: store,
		cache: cache,
		dlq:   dlq,
		policy: retry.Policy{
			MaxRetries: cfg.DLQMaxRetries,
			Backoff:    retry.NewBackoff(cfg.DLQBackoff, cfg.DLQBackoffCap, cfg.DLQBackoffJitter),
		},
		validate: validation.New(),
		metrics:  metrics,
		log:      slog.Default().With("component", "kafka-import"),
	}
}

// Handle обрабатывает одно сообщение. Ошибка возвращается только тогда, когда
// сообщение не удалось ни сохранить, ни переложить в DLQ: такое сообщение нельзя коммитить.
func (im *Importer) Handle(ctx context.Context, m kafka.Message) error {
	log := im.log.With("partition", m.Partition, "offset", m.Offset)

	in, err := decodeInput(m.Value)
	if err == nil {
		err = im.validate.Struct(in)
	}
	if err != nil {
		log.Warn("invalid import message", "error", err)
		im.metrics.ItemImported(ctx, OutcomeInvalid)
		return im.toDLQ(ctx, m, OutcomeInvalid, err, 0)
	}

	attempts := 0
	var item *models.Item
	err = retry.Do(ctx, im.policy, func() error {
		attempts++
		created, err := im.store.Create(ctx, in)
		if config.IsDataError(err) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		item = created
		return nil
	}, func(err error, attempt int, wait time.Duration) {
		log.Warn("import store write failed, retrying", "error", err, "attempt", attempt, "retry_in", wait)
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("import failed", "error", err, "attempts", attempts)
		im.metrics.ItemImported(ctx, OutcomeFailed)
		return im.toDLQ(ctx, m, OutcomeFailed, err, attempts)
	}

	im.cache.Set(ctx, item)
	im.metrics.ItemImported(ctx, OutcomeImported)
	log.Info("item imported", "item_id", item.ID, "name", item.Name)
	return nil
}

func (im *Importer) toDLQ(ctx context.Context, m kafka.Message, outcome string, cause error, attempts int) error {
	if im.dlq == nil {
		return nil
	}
	msg := kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Headers: append(append([]kafka.Header(nil), m.Headers...),
			kafka.Header{Key: HeaderError, Value: []byte(cause.Error())},
			kafka.Header{Key: HeaderOutcome, Value: []byte(outcome)},
			kafka.Header{Key: HeaderAttempts, Value: []byte(fmt.Sprint(attempts))},
		),
	}
	if err := im.dlq.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to dlq: %w", err)
	}
	return nil
}

func decodeInput(data []byte) (models.ItemInput, error) {
	var in models.ItemInput
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("decode item: %w", err)
	}
	in.Normalize()
	return in, nil
}

// MessageReader - часть kafka.Reader, которую использует консьюмер.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewImportReader создает reader группы cfg.GroupID для топика импорта.
func NewImportReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.ImportTopic,
		GroupID: cfg.GroupID,
	})
}

// RunImportConsumer читает сообщения до отмены ctx. Сообщение коммитится после
// успешной обработки или переноса в DLQ. Reader закрывается при выходе.
func RunImportConsumer(ctx context.Context, r MessageReader, im *Importer) error {
	defer func() {
		if err := r.Close(); err != nil {
			slog.Error("kafka reader close error", "error", err)
		}
	}()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch import message: %w", err)
		}

		if err := im.Handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit import message: %w", err)
		}
	}
}
