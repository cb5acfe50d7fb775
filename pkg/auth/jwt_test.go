package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agenda-api/internal/model"
)

func testCode() *model.AccessCode {
	code := &model.AccessCode{
		Code:   "PRV000001",
		Role:   model.RoleProvider,
		Status: model.CodeStatusActive,
	}
	code.ID = uuid.New()
	return code
}

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	code := testCode()

	token, claims, err := svc.GenerateToken(code)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, code.ID, parsed.CodeID)
	assert.Equal(t, "PRV000001", parsed.Code)
	assert.Equal(t, model.RoleProvider, parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestEveryTokenGetsUniqueSessionID(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	code := testCode()

	_, first, err := svc.GenerateToken(code)
	require.NoError(t, err)
	_, second, err := svc.GenerateToken(code)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute)

	token, _, err := svc.GenerateToken(testCode())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", time.Hour).GenerateToken(testCode())
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}
