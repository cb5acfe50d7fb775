package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository/memory"
)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	for _, c := range []struct {
		code string
		role model.Role
	}{
		{"ADM123456", model.RoleAdmin},
		{"PRV000001", model.RoleProvider},
		{"PRV000002", model.RoleProvider},
		{"REQ000001", model.RoleRequester},
	} {
		require.NoError(t, store.AccessCodes().Create(ctx, &model.AccessCode{
			Code:   c.code,
			Role:   c.role,
			Status: model.CodeStatusActive,
		}))
	}

	availability := &model.Availability{
		Date:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      "09:00",
		EndTime:        "10:00",
		Capacity:       3,
		RemainingSlots: 3,
		CreatedBy:      "PRV000001",
	}
	require.NoError(t, store.Availabilities().Create(ctx, availability))

	for _, num := range []string{"SVC-001", "SVC-002"} {
		require.NoError(t, store.Bookings().CreateWithDecrement(ctx, &model.Booking{
			AvailabilityID: availability.ID,
			ClientName:     "Maria Silva",
			ServiceNumber:  num,
			TimeSlot:       "09:00",
			CreatedBy:      "REQ000001",
		}))
	}
}

func TestStatsAggregates(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	svc := NewService(store.AccessCodes(), store.Bookings())

	got, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ActiveCodesByRole[model.RoleAdmin])
	assert.Equal(t, int64(2), got.ActiveCodesByRole[model.RoleProvider])
	assert.Equal(t, int64(1), got.ActiveCodesByRole[model.RoleRequester])
	assert.Equal(t, int64(2), got.ConfirmedBookings)
}

func TestStatsExcludesDeactivatedAndCancelled(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	ctx := context.Background()

	codes, err := store.AccessCodes().List(ctx)
	require.NoError(t, err)
	for _, c := range codes {
		if c.Role == model.RoleProvider {
			require.NoError(t, store.AccessCodes().Deactivate(ctx, c.ID))
			break
		}
	}

	bookings, err := store.Bookings().ListByUser(ctx, "REQ000001")
	require.NoError(t, err)
	require.NotEmpty(t, bookings)
	require.NoError(t, store.Bookings().Cancel(ctx, bookings[0].ID))

	svc := NewService(store.AccessCodes(), store.Bookings())
	got, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ActiveCodesByRole[model.RoleProvider])
	assert.Equal(t, int64(1), got.ConfirmedBookings)
}

// The aggregate is cached briefly, so a write right after a read is not
// reflected until the entry expires.
func TestStatsServesCachedValue(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	svc := NewService(store.AccessCodes(), store.Bookings())
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)

	require.NoError(t, store.AccessCodes().Create(ctx, &model.AccessCode{
		Code:   "REQ000002",
		Role:   model.RoleRequester,
		Status: model.CodeStatusActive,
	}))

	second, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ActiveCodesByRole[model.RoleRequester], second.ActiveCodesByRole[model.RoleRequester])
}
