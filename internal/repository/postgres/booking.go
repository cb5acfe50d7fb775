package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

// CreateWithDecrement serializes the check-then-decrement against
// concurrent bookings of the same availability: the conditional UPDATE
// only matches while remaining_slots > 0, and the booking insert commits
// in the same transaction. A zero affected-row count means the race was
// lost and the whole unit rolls back.
func (r *bookingRepository) CreateWithDecrement(ctx context.Context, booking *model.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE availabilities
		SET remaining_slots = remaining_slots - 1, updated_at = $1
		WHERE id = $2 AND remaining_slots > 0
	`, time.Now(), booking.AvailabilityID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to decrement remaining slots: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return repository.ErrSlotsExhausted
	}

	booking.ID = uuid.New()
	booking.Status = model.BookingStatusConfirmed
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (
			id, availability_id, client_name, client_document, client_phone,
			client_email, service_number, time_slot, comments, status,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		booking.ID,
		booking.AvailabilityID,
		booking.ClientName,
		booking.ClientDocument,
		booking.ClientPhone,
		booking.ClientEmail,
		booking.ServiceNumber,
		booking.TimeSlot,
		booking.Comments,
		booking.Status,
		booking.CreatedBy,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create booking after decrement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, availability_id, client_name, client_document, client_phone,
			   client_email, service_number, time_slot, comments, status,
			   created_by, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, code string) ([]*model.Booking, error) {
	query := `
		SELECT id, availability_id, client_name, client_document, client_phone,
			   client_email, service_number, time_slot, comments, status,
			   created_by, created_at, updated_at
		FROM bookings
		WHERE created_by = $1
		ORDER BY created_at DESC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByAvailability(ctx context.Context, availabilityID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT id, availability_id, client_name, client_document, client_phone,
			   client_email, service_number, time_slot, comments, status,
			   created_by, created_at, updated_at
		FROM bookings
		WHERE availability_id = $1
		ORDER BY created_at DESC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, availabilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountConfirmed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM bookings WHERE status = $1
	`, model.BookingStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) CountConfirmedByAvailability(ctx context.Context, availabilityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM bookings WHERE availability_id = $1 AND status = $2
	`, availabilityID, model.BookingStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.BookingStatusCancelled, time.Now(), id, model.BookingStatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
