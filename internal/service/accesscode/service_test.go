package accesscode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/internal/repository/memory"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store.AccessCodes()), store
}

func TestCreateWithExplicitCode(t *testing.T) {
	svc, _ := newTestService()

	code, err := svc.Create(context.Background(), &model.CreateAccessCodeRequest{
		Code:     "EMB000001",
		Role:     "provider",
		Location: "Consulado de Lisboa",
	})
	require.NoError(t, err)

	assert.Equal(t, "EMB000001", code.Code)
	assert.Equal(t, model.RoleProvider, code.Role)
	assert.Equal(t, model.CodeStatusActive, code.Status)
	assert.Equal(t, "Consulado de Lisboa", code.Location)
}

func TestCreateGeneratesCodeFromRolePrefix(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for role, prefix := range map[string]string{
		"admin":     "ADM",
		"provider":  "PRV",
		"requester": "REQ",
	} {
		code, err := svc.Create(ctx, &model.CreateAccessCodeRequest{Role: role})
		require.NoError(t, err)
		assert.Len(t, code.Code, 9)
		assert.Equal(t, prefix, code.Code[:3])
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &model.CreateAccessCodeRequest{Role: "superuser"})
	assert.Error(t, err)
}

func TestCreateRejectsDuplicateActiveCode(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateAccessCodeRequest{Code: "SAC000001", Role: "requester"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreateAccessCodeRequest{Code: "SAC000001", Role: "requester"})
	assert.ErrorIs(t, err, repository.ErrDuplicateCode)
}

func TestDeactivateFreesCodeStringForReissue(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, &model.CreateAccessCodeRequest{Code: "SAC000001", Role: "requester"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, first.ID))

	// Only active codes count as duplicates, the string can be reissued.
	second, err := svc.Create(ctx, &model.CreateAccessCodeRequest{Code: "SAC000001", Role: "requester"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateLocation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateAccessCodeRequest{Role: "provider", Location: "Porto"})
	require.NoError(t, err)

	loc := "Faro"
	updated, err := svc.Update(ctx, created.ID, &model.UpdateAccessCodeRequest{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Faro", updated.Location)
	assert.Equal(t, created.Code, updated.Code)
}

func TestEnsureBootstrapCodeIsIdempotent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapCode(ctx, "ADM123456"))
	require.NoError(t, svc.EnsureBootstrapCode(ctx, "ADM123456"))

	all, err := store.AccessCodes().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.RoleAdmin, all[0].Role)
	assert.Equal(t, "ADM123456", all[0].Code)
}
