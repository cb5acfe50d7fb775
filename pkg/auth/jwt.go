package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
)

// JWTService issues and validates session tokens. A token binds an access
// code identity for a fixed validity window; there is no refresh flow, a
// caller re-authenticates with its code.
type JWTService interface {
	GenerateToken(code *model.AccessCode) (string, *model.TokenClaims, error)
	ValidateToken(token string) (*model.TokenClaims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) GenerateToken(code *model.AccessCode) (string, *model.TokenClaims, error) {
	now := time.Now()
	claims := &model.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   code.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		CodeID: code.ID,
		Code:   code.Code,
		Role:   code.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*model.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
