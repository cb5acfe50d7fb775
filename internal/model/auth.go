package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated principal attached to every request after
// the session token is validated.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Role Role      `json:"role"`
}

type LoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenClaims are the JWT claims carried by a session token.
type TokenClaims struct {
	jwt.RegisteredClaims
	CodeID uuid.UUID `json:"code_id"`
	Code   string    `json:"code"`
	Role   Role      `json:"role"`
}

func (c *TokenClaims) Identity() Identity {
	return Identity{ID: c.CodeID, Code: c.Code, Role: c.Role}
}
