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

func (r *accessCodeRepository) Create(ctx context.Context, code *model.AccessCode) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM access_codes WHERE code = $1 AND status = $2
		)
	`, code.Code, model.CodeStatusActive)
	if err != nil {
		return fmt.Errorf("failed to check code uniqueness: %w", err)
	}
	if exists {
		return repository.ErrDuplicateCode
	}

	query := `
		INSERT INTO access_codes (
			id, code, role, location, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	code.ID = uuid.New()
	code.CreatedAt = time.Now()
	code.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		code.ID,
		code.Code,
		code.Role,
		code.Location,
		code.Status,
		code.CreatedAt,
		code.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create access code: %w", err)
	}
	return nil
}

func (r *accessCodeRepository) Get(ctx context.Context, id uuid.UUID) (*model.AccessCode, error) {
	query := `
		SELECT id, code, role, location, status, created_at, updated_at
		FROM access_codes
		WHERE id = $1
	`
	var code model.AccessCode
	err := r.db.GetContext(ctx, &code, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access code: %w", err)
	}
	return &code, nil
}

func (r *accessCodeRepository) GetByActiveCode(ctx context.Context, codeStr string) (*model.AccessCode, error) {
	query := `
		SELECT id, code, role, location, status, created_at, updated_at
		FROM access_codes
		WHERE code = $1 AND status = $2
	`
	var code model.AccessCode
	err := r.db.GetContext(ctx, &code, query, codeStr, model.CodeStatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access code: %w", err)
	}
	return &code, nil
}

func (r *accessCodeRepository) Update(ctx context.Context, code *model.AccessCode) error {
	query := `
		UPDATE access_codes
		SET location = $1, updated_at = $2
		WHERE id = $3
	`
	code.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, code.Location, code.UpdatedAt, code.ID)
	if err != nil {
		return fmt.Errorf("failed to update access code: %w", err)
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

func (r *accessCodeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE access_codes
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.CodeStatusDeactivated, time.Now(), id, model.CodeStatusActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate access code: %w", err)
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

func (r *accessCodeRepository) List(ctx context.Context) ([]*model.AccessCode, error) {
	query := `
		SELECT id, code, role, location, status, created_at, updated_at
		FROM access_codes
		ORDER BY created_at DESC
	`
	var codes []*model.AccessCode
	err := r.db.SelectContext(ctx, &codes, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list access codes: %w", err)
	}
	return codes, nil
}

func (r *accessCodeRepository) CountActiveByRole(ctx context.Context) (map[model.Role]int64, error) {
	query := `
		SELECT role, COUNT(*) AS count
		FROM access_codes
		WHERE status = $1
		GROUP BY role
	`
	rows := []struct {
		Role  model.Role `db:"role"`
		Count int64      `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, model.CodeStatusActive); err != nil {
		return nil, fmt.Errorf("failed to count access codes: %w", err)
	}

	counts := make(map[model.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
