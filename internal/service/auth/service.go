package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/pkg/auth"
	"github.com/agendafacil/agenda-api/pkg/session"
)

var (
	// ErrInvalidCredential covers both unknown and deactivated codes; the
	// caller cannot tell them apart.
	ErrInvalidCredential = errors.New("invalid credential")
)

// SessionExpiry is the fixed validity window of a session token.
const SessionExpiry = 24 * time.Hour

type Service struct {
	codeRepo repository.AccessCodeRepository
	jwtSvc   auth.JWTService
	sessions session.RevocationStore
}

func NewService(codeRepo repository.AccessCodeRepository, jwtSvc auth.JWTService, sessions session.RevocationStore) *Service {
	return &Service{
		codeRepo: codeRepo,
		jwtSvc:   jwtSvc,
		sessions: sessions,
	}
}

// Login exchanges an access code for a session token. The lookup only
// matches active codes, so a deactivated code fails exactly like a code
// that never existed.
func (s *Service) Login(ctx context.Context, codeStr string) (*model.TokenResponse, *model.Identity, error) {
	code, err := s.codeRepo.GetByActiveCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredential
		}
		return nil, nil, fmt.Errorf("failed to look up access code: %w", err)
	}

	token, claims, err := s.jwtSvc.GenerateToken(code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	identity := claims.Identity()
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(SessionExpiry.Seconds()),
	}, &identity, nil
}

// ValidateToken checks signature, expiry and revocation. An expired token
// is indistinguishable from never having authenticated.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("session revoked")
	}
	return claims, nil
}

// Logout revokes the session token for the rest of its validity window.
// The persisted access code is untouched.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		// An invalid or expired token has no session to revoke.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
