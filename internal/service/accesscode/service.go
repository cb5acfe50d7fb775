package accesscode

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

var rolePrefix = map[model.Role]string{
	model.RoleAdmin:     "ADM",
	model.RoleProvider:  "PRV",
	model.RoleRequester: "REQ",
}

// Service manages the credential lifecycle. Admin-only; role gating
// happens at the transport layer.
type Service struct {
	repo repository.AccessCodeRepository
}

func NewService(repo repository.AccessCodeRepository) *Service {
	return &Service{repo: repo}
}

// Create issues a new access code. When no code string is supplied one is
// generated from the role prefix plus six random digits.
func (s *Service) Create(ctx context.Context, req *model.CreateAccessCodeRequest) (*model.AccessCode, error) {
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}

	codeStr := req.Code
	if codeStr == "" {
		generated, err := generateCode(role)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
		codeStr = generated
	}

	code := &model.AccessCode{
		Code:     codeStr,
		Role:     role,
		Location: req.Location,
		Status:   model.CodeStatusActive,
	}
	if err := s.repo.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.AccessCode, error) {
	return s.repo.Get(ctx, id)
}

// List returns every code, deactivated ones included, so provenance stays
// auditable.
func (s *Service) List(ctx context.Context) ([]*model.AccessCode, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAccessCodeRequest) (*model.AccessCode, error) {
	code, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Location != nil {
		code.Location = *req.Location
	}
	if err := s.repo.Update(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// Deactivate soft-deletes the code. The row persists so that
// availabilities and bookings keep a resolvable created_by reference, but
// the code can never authenticate again.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

// EnsureBootstrapCode creates the seed admin code if no active code with
// that string exists yet. Called once at startup.
func (s *Service) EnsureBootstrapCode(ctx context.Context, codeStr string) error {
	if codeStr == "" {
		return nil
	}
	if _, err := s.repo.GetByActiveCode(ctx, codeStr); err == nil {
		return nil
	}
	code := &model.AccessCode{
		Code:   codeStr,
		Role:   model.RoleAdmin,
		Status: model.CodeStatusActive,
	}
	return s.repo.Create(ctx, code)
}

func generateCode(role model.Role) (string, error) {
	const digits = 6
	max := big.NewInt(10)

	buf := make([]byte, digits)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return rolePrefix[role] + string(buf), nil
}
