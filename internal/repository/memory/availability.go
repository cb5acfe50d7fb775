package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

type availabilityRepository struct {
	store *Store
}

func (r *availabilityRepository) Create(_ context.Context, availability *model.Availability) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stamp(&availability.Base)
	r.store.availabilities[availability.ID] = *availability
	return nil
}

func (r *availabilityRepository) Get(_ context.Context, id uuid.UUID) (*model.Availability, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	availability, ok := r.store.availabilities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &availability, nil
}

func (r *availabilityRepository) ListByMonth(_ context.Context, year int, month int) ([]*model.Availability, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	availabilities := make([]*model.Availability, 0)
	for _, availability := range r.store.availabilities {
		if availability.Date.Before(from) || !availability.Date.Before(to) {
			continue
		}
		a := availability
		availabilities = append(availabilities, &a)
	}
	sort.Slice(availabilities, func(i, j int) bool {
		if !availabilities[i].Date.Equal(availabilities[j].Date) {
			return availabilities[i].Date.Before(availabilities[j].Date)
		}
		return availabilities[i].StartTime < availabilities[j].StartTime
	})
	return availabilities, nil
}

func (r *availabilityRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.availabilities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.availabilities, id)
	return nil
}
