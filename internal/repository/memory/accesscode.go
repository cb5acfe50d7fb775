package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

type accessCodeRepository struct {
	store *Store
}

func (r *accessCodeRepository) Create(_ context.Context, code *model.AccessCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.accessCodes {
		if existing.Code == code.Code && existing.Status == model.CodeStatusActive {
			return repository.ErrDuplicateCode
		}
	}

	stamp(&code.Base)
	r.store.accessCodes[code.ID] = *code
	return nil
}

func (r *accessCodeRepository) Get(_ context.Context, id uuid.UUID) (*model.AccessCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	code, ok := r.store.accessCodes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &code, nil
}

func (r *accessCodeRepository) GetByActiveCode(_ context.Context, codeStr string) (*model.AccessCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, code := range r.store.accessCodes {
		if code.Code == codeStr && code.Status == model.CodeStatusActive {
			c := code
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *accessCodeRepository) Update(_ context.Context, code *model.AccessCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.accessCodes[code.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Location = code.Location
	existing.UpdatedAt = time.Now()
	r.store.accessCodes[code.ID] = existing
	*code = existing
	return nil
}

func (r *accessCodeRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	code, ok := r.store.accessCodes[id]
	if !ok || code.Status != model.CodeStatusActive {
		return repository.ErrNotFound
	}
	code.Status = model.CodeStatusDeactivated
	code.UpdatedAt = time.Now()
	r.store.accessCodes[id] = code
	return nil
}

func (r *accessCodeRepository) List(_ context.Context) ([]*model.AccessCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	codes := make([]*model.AccessCode, 0, len(r.store.accessCodes))
	for _, code := range r.store.accessCodes {
		c := code
		codes = append(codes, &c)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].CreatedAt.After(codes[j].CreatedAt)
	})
	return codes, nil
}

func (r *accessCodeRepository) CountActiveByRole(_ context.Context) (map[model.Role]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[model.Role]int64)
	for _, code := range r.store.accessCodes {
		if code.Status == model.CodeStatusActive {
			counts[code.Role]++
		}
	}
	return counts, nil
}
