package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoGogDBD/inventory/internal/config"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/repository"
	"github.com/RoGogDBD/inventory/internal/repository/mocks"
)

type writerMock struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *writerMock) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *writerMock) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func testKafkaConfig() config.KafkaConfig {
	return config.KafkaConfig{DLQMaxRetries: 2}
}

func TestPublisher(t *testing.T) {
	w := &writerMock{}
	p := NewPublisher(w)

	ev := models.ItemEvent{
		Type:       models.ItemUpdated,
		Item:       models.Item{ID: "item-1", Name: "Pen", Quantity: 3, Price: 1.5},
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "item-1", string(msg.Key))
	assert.Equal(t, models.ItemUpdated, header(msg, "event-type"))

	var got models.ItemEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisherWriteError(t *testing.T) {
	p := NewPublisher(&writerMock{err: errors.New("broker down")})

	err := p.Publish(context.Background(), models.ItemEvent{Type: models.ItemDeleted, Item: models.Item{ID: "x"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestImporterHandle(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		createErrs   []error
		wantCreates  int
		wantStored   bool
		wantDLQ      bool
		wantOutcome  string
		wantAttempts string
	}{
		{
			name:        "valid item",
			value:       `{"name":" Stapler ","quantity":12,"price":9.99,"category":"Office"}`,
			wantCreates: 1,
			wantStored:  true,
		},
		{
			name:        "malformed json",
			value:       `{"name":`,
			wantDLQ:     true,
			wantOutcome: OutcomeInvalid,
		},
		{
			name:         "fails validation",
			value:        `{"name":"S","quantity":-1,"price":1}`,
			wantDLQ:      true,
			wantOutcome:  OutcomeInvalid,
			wantAttempts: "0",
		},
		{
			name:        "recovers after transient failure",
			value:       `{"name":"Pen","quantity":1,"price":1}`,
			createErrs:  []error{errors.New("connection reset")},
			wantCreates: 2,
			wantStored:  true,
		},
		{
			name:         "store keeps failing",
			value:        `{"name":"Pen","quantity":1,"price":1}`,
			createErrs:   []error{io.ErrUnexpectedEOF, io.ErrUnexpectedEOF, io.ErrUnexpectedEOF},
			wantCreates:  3,
			wantDLQ:      true,
			wantOutcome:  OutcomeFailed,
			wantAttempts: "3",
		},
		{
			name:         "rejected data is not retried",
			value:        `{"name":"Pen","quantity":1,"price":1}`,
			createErrs:   []error{&pgconn.PgError{Code: "23514"}},
			wantCreates:  1,
			wantDLQ:      true,
			wantOutcome:  OutcomeFailed,
			wantAttempts: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			store := &mocks.ItemStoreMock{
				CreateFunc: func(ctx context.Context, in models.ItemInput) (*models.Item, error) {
					calls++
					if calls <= len(tt.createErrs) {
						return nil, tt.createErrs[calls-1]
					}
					it := &models.Item{ID: "new-id"}
					in.Apply(it)
					return it, nil
				},
			}
			cache := &mocks.CacheMock{}
			dlq := &writerMock{}
			im := NewImporter(store, cache, dlq, testKafkaConfig(), nil)

			msg := kafka.Message{Key: []byte("k"), Value: []byte(tt.value), Offset: 42}
			require.NoError(t, im.Handle(context.Background(), msg))

			assert.Equal(t, tt.wantCreates, store.CreateCalls)
			if tt.wantStored {
				assert.Equal(t, 1, cache.SetCalls)
			} else {
				assert.Zero(t, cache.SetCalls)
			}
			if !tt.wantDLQ {
				assert.Empty(t, dlq.msgs)
				return
			}
			require.Len(t, dlq.msgs, 1)
			got := dlq.msgs[0]
			assert.Equal(t, msg.Value, got.Value)
			assert.Equal(t, msg.Key, got.Key)
			assert.Equal(t, tt.wantOutcome, header(got, HeaderOutcome))
			assert.NotEmpty(t, header(got, HeaderError))
			if tt.wantAttempts != "" {
				assert.Equal(t, tt.wantAttempts, header(got, HeaderAttempts))
			}
		})
	}
}

func TestImporterNormalizesInput(t *testing.T) {
	store := repository.NewMemStorage()
	im := NewImporter(store, nil, &writerMock{}, testKafkaConfig(), nil)

	value := `{"name":"  Stapler ","quantity":12,"price":9.99,"category":" Office "}`
	require.NoError(t, im.Handle(context.Background(), kafka.Message{Value: []byte(value)}))

	items, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Stapler", items[0].Name)
	assert.Equal(t, "Office", items[0].Category)
}

func TestImporterDLQFailure(t *testing.T) {
	im := NewImporter(&mocks.ItemStoreMock{}, nil, &writerMock{err: errors.New("dlq down")}, testKafkaConfig(), nil)

	err := im.Handle(context.Background(), kafka.Message{Value: []byte(`not json`)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dlq down")
}

type readerMock struct {
	msgs      []kafka.Message
	committed []int64
	closed    bool
	cancel    context.CancelFunc
}

func (r *readerMock) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *readerMock) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *readerMock) Close() error {
	r.closed = true
	return nil
}

func TestRunImportConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := repository.NewMemStorage()
	dlq := &writerMock{}
	reader := &readerMock{
		cancel: cancel,
		msgs: []kafka.Message{
			{Offset: 1, Value: []byte(`{"name":"Pen","quantity":5,"price":1}`)},
			{Offset: 2, Value: []byte(`{"name":""}`)},
			{Offset: 3, Value: []byte(`{"name":"Desk","quantity":1,"price":150}`)},
		},
	}

	err := RunImportConsumer(ctx, reader, NewImporter(store, nil, dlq, testKafkaConfig(), nil))

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	assert.True(t, reader.closed)
	assert.Equal(t, 2, store.Len())
	assert.Len(t, dlq.msgs, 1)
}
