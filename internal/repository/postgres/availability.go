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

func (r *availabilityRepository) Create(ctx context.Context, availability *model.Availability) error {
	query := `
		INSERT INTO availabilities (
			id, date, start_time, end_time, capacity, remaining_slots,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	availability.ID = uuid.New()
	availability.CreatedAt = time.Now()
	availability.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		availability.ID,
		availability.Date,
		availability.StartTime,
		availability.EndTime,
		availability.Capacity,
		availability.RemainingSlots,
		availability.CreatedBy,
		availability.CreatedAt,
		availability.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create availability: %w", err)
	}
	return nil
}

func (r *availabilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	query := `
		SELECT id, date, start_time, end_time, capacity, remaining_slots,
			   created_by, created_at, updated_at
		FROM availabilities
		WHERE id = $1
	`
	var availability model.Availability
	err := r.db.GetContext(ctx, &availability, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &availability, nil
}

func (r *availabilityRepository) ListByMonth(ctx context.Context, year int, month int) ([]*model.Availability, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `
		SELECT id, date, start_time, end_time, capacity, remaining_slots,
			   created_by, created_at, updated_at
		FROM availabilities
		WHERE date >= $1 AND date < $2
		ORDER BY date ASC, start_time ASC
	`
	var availabilities []*model.Availability
	err := r.db.SelectContext(ctx, &availabilities, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list availabilities: %w", err)
	}
	return availabilities, nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM availabilities
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
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
