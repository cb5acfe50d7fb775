package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
)

// Sentinel errors shared by every store implementation so that services
// can branch on outcome without knowing the backend.
var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode is returned when an active access code with the
	// same code string already exists.
	ErrDuplicateCode = errors.New("access code already exists")

	// ErrSlotsExhausted is returned by CreateWithDecrement when the
	// conditional decrement matched no row, i.e. the availability had no
	// remaining slots at commit time.
	ErrSlotsExhausted = errors.New("no remaining slots")
)

// All repository interfaces in one file
type (
	// AccessCodeRepository stores credentials. Codes are soft-deleted:
	// Deactivate flips the status, rows are never removed.
	AccessCodeRepository interface {
		Create(ctx context.Context, code *model.AccessCode) error
		Get(ctx context.Context, id uuid.UUID) (*model.AccessCode, error)
		// GetByActiveCode matches the code string against active codes only.
		GetByActiveCode(ctx context.Context, code string) (*model.AccessCode, error)
		Update(ctx context.Context, code *model.AccessCode) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.AccessCode, error)
		CountActiveByRole(ctx context.Context) (map[model.Role]int64, error)
	}

	AvailabilityRepository interface {
		Create(ctx context.Context, availability *model.Availability) error
		Get(ctx context.Context, id uuid.UUID) (*model.Availability, error)
		// ListByMonth returns the month's availabilities ordered by date,
		// then start time.
		ListByMonth(ctx context.Context, year int, month int) ([]*model.Availability, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	BookingRepository interface {
		// CreateWithDecrement persists the booking and decrements the
		// availability's remaining slots as one atomic unit. Returns
		// ErrSlotsExhausted when the availability has no slot left.
		CreateWithDecrement(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		ListByUser(ctx context.Context, code string) ([]*model.Booking, error)
		ListByAvailability(ctx context.Context, availabilityID uuid.UUID) ([]*model.Booking, error)
		CountConfirmed(ctx context.Context) (int64, error)
		CountConfirmedByAvailability(ctx context.Context, availabilityID uuid.UUID) (int64, error)
		Cancel(ctx context.Context, id uuid.UUID) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	}
)
