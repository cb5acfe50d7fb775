package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository/memory"
	"github.com/agendafacil/agenda-api/pkg/logger"
	"github.com/agendafacil/agenda-api/pkg/metrics"
)

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	failures  int
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

var testMetrics = metrics.NewMetrics("outbox_test")

func newProcessor(broker *fakeBroker, repo *memory.Store, retries int) *OutboxProcessor {
	return NewOutboxProcessor(repo.Outbox(), broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Hour, // processEvents driven directly
		RetryAttempts: retries,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
}

func enqueue(t *testing.T, store *memory.Store, eventType string) *model.OutboxEvent {
	t.Helper()
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   []byte(`{"booking_id":"test"}`),
	}
	require.NoError(t, store.Outbox().Create(context.Background(), event))
	return event
}

func TestProcessEventsMarksProcessed(t *testing.T) {
	store := memory.NewStore()
	broker := &fakeBroker{}
	p := newProcessor(broker, store, 1)
	ctx := context.Background()

	enqueue(t, store, "booking_confirmed")
	enqueue(t, store, "booking_confirmed")

	require.NoError(t, p.processEvents(ctx))

	assert.Len(t, broker.published, 2)

	pending, err := store.Outbox().GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessEventsRetriesTransientFailure(t *testing.T) {
	store := memory.NewStore()
	broker := &fakeBroker{failures: 2}
	p := newProcessor(broker, store, 3)
	ctx := context.Background()

	enqueue(t, store, "booking_confirmed")

	require.NoError(t, p.processEvents(ctx))

	assert.Len(t, broker.published, 1)
	pending, err := store.Outbox().GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessEventsMarksFailedAfterRetries(t *testing.T) {
	store := memory.NewStore()
	broker := &fakeBroker{failures: 100}
	p := newProcessor(broker, store, 2)
	ctx := context.Background()

	enqueue(t, store, "booking_confirmed")

	require.NoError(t, p.processEvents(ctx))

	assert.Empty(t, broker.published)

	// The event left the pending queue with its last error recorded.
	pending, err := store.Outbox().GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
