package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

type bookingRepository struct {
	store *Store
}

// CreateWithDecrement performs the slot check, decrement and booking
// insert under the store mutex, mirroring the postgres transaction.
func (r *bookingRepository) CreateWithDecrement(_ context.Context, booking *model.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	availability, ok := r.store.availabilities[booking.AvailabilityID]
	if !ok {
		return repository.ErrNotFound
	}
	if availability.RemainingSlots <= 0 {
		return repository.ErrSlotsExhausted
	}

	availability.RemainingSlots--
	availability.UpdatedAt = time.Now()
	r.store.availabilities[availability.ID] = availability

	stamp(&booking.Base)
	booking.Status = model.BookingStatusConfirmed
	r.store.bookings[booking.ID] = *booking
	return nil
}

func (r *bookingRepository) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(_ context.Context, code string) ([]*model.Booking, error) {
	return r.list(func(b *model.Booking) bool { return b.CreatedBy == code })
}

func (r *bookingRepository) ListByAvailability(_ context.Context, availabilityID uuid.UUID) ([]*model.Booking, error) {
	return r.list(func(b *model.Booking) bool { return b.AvailabilityID == availabilityID })
}

func (r *bookingRepository) list(match func(*model.Booking) bool) ([]*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := make([]*model.Booking, 0)
	for _, booking := range r.store.bookings {
		b := booking
		if match(&b) {
			bookings = append(bookings, &b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *bookingRepository) CountConfirmed(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, booking := range r.store.bookings {
		if booking.Status == model.BookingStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *bookingRepository) CountConfirmedByAvailability(_ context.Context, availabilityID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, booking := range r.store.bookings {
		if booking.AvailabilityID == availabilityID && booking.Status == model.BookingStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *bookingRepository) Cancel(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok || booking.Status != model.BookingStatusConfirmed {
		return repository.ErrNotFound
	}
	booking.Status = model.BookingStatusCancelled
	booking.UpdatedAt = time.Now()
	r.store.bookings[id] = booking
	return nil
}
