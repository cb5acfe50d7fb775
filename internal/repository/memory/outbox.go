package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

type outboxRepository struct {
	store *Store
}

func (r *outboxRepository) Create(_ context.Context, event *model.OutboxEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.store.outbox[event.ID] = *event
	return nil
}

func (r *outboxRepository) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*model.OutboxEvent, 0)
	for _, event := range r.store.outbox {
		if event.Status == model.OutboxStatusPending {
			e := event
			events = append(events, &e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	event, ok := r.store.outbox[id]
	if !ok {
		return repository.ErrNotFound
	}
	event.Status = status
	event.ErrorMessage = errorMessage
	if status == model.OutboxStatusProcessed {
		now := time.Now()
		event.ProcessedAt = &now
	}
	event.UpdatedAt = time.Now()
	r.store.outbox[id] = event
	return nil
}
