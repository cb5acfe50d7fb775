// Package memory implements the repository interfaces over in-process
// maps. It backs the service tests and local development; the postgres
// package is the durable implementation.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

// Store holds every entity kind behind a single mutex so that the booking
// check-then-decrement is serialized exactly like the postgres
// transaction.
type Store struct {
	mu             sync.RWMutex
	accessCodes    map[uuid.UUID]model.AccessCode
	availabilities map[uuid.UUID]model.Availability
	bookings       map[uuid.UUID]model.Booking
	outbox         map[uuid.UUID]model.OutboxEvent
}

func NewStore() *Store {
	return &Store{
		accessCodes:    make(map[uuid.UUID]model.AccessCode),
		availabilities: make(map[uuid.UUID]model.Availability),
		bookings:       make(map[uuid.UUID]model.Booking),
		outbox:         make(map[uuid.UUID]model.OutboxEvent),
	}
}

func (s *Store) AccessCodes() repository.AccessCodeRepository {
	return &accessCodeRepository{store: s}
}

func (s *Store) Availabilities() repository.AvailabilityRepository {
	return &availabilityRepository{store: s}
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepository{store: s}
}

func (s *Store) Outbox() repository.OutboxRepository {
	return &outboxRepository{store: s}
}

func stamp(b *model.Base) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
}
