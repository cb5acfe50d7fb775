package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/internal/repository/memory"
)

var provider = model.Identity{Code: "PRV000001", Role: model.RoleProvider}

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store.Availabilities(), store.Bookings()), store
}

func TestCreateStartsWithAllSlotsFree(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "09:00",
		EndTime:   "10:30",
		Capacity:  5,
	}, provider)
	require.NoError(t, err)

	assert.Equal(t, 5, got.Capacity)
	assert.Equal(t, 5, got.RemainingSlots)
	assert.Equal(t, provider.Code, got.CreatedBy)
	assert.NotEqual(t, "", got.ID.String())
}

func TestCreateRejectsSpanOverTwoHours(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "09:00",
		EndTime:   "12:00",
		Capacity:  3,
	}, provider)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	// Exactly two hours is the boundary and still allowed.
	_, err = svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "09:00",
		EndTime:   "11:00",
		Capacity:  3,
	}, provider)
	assert.NoError(t, err)
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "11:00",
		EndTime:   "10:00",
		Capacity:  1,
	}, provider)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "10:00",
		EndTime:   "10:00",
		Capacity:  1,
	}, provider)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "10/03/2026",
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  1,
	}, provider)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "9am",
		EndTime:   "10:00",
		Capacity:  1,
	}, provider)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.Create(context.Background(), &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  0,
	}, provider)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestListByMonthOrdersByDateThenStart(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, w := range []struct{ date, start, end string }{
		{"2026-03-20", "14:00", "15:00"},
		{"2026-03-05", "10:00", "11:00"},
		{"2026-03-20", "08:00", "09:00"},
		{"2026-04-01", "09:00", "10:00"}, // next month, must not appear
	} {
		_, err := svc.Create(ctx, &model.CreateAvailabilityRequest{
			Date:      w.date,
			StartTime: w.start,
			EndTime:   w.end,
			Capacity:  1,
		}, provider)
		require.NoError(t, err)
	}

	got, err := svc.ListByMonth(ctx, 2026, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2026-03-05", got[0].Date.Format("2006-01-02"))
	assert.Equal(t, "08:00", got[1].StartTime)
	assert.Equal(t, "14:00", got[2].StartTime)

	_, err = svc.ListByMonth(ctx, 2026, 13)
	assert.Error(t, err)
}

func TestDeleteOnlyByOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  2,
	}, provider)
	require.NoError(t, err)

	other := model.Identity{Code: "PRV999999", Role: model.RoleProvider}
	err = svc.Delete(ctx, created.ID, other)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Delete(ctx, created.ID, provider)
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRefusedWithConfirmedBookings(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateAvailabilityRequest{
		Date:      "2026-03-10",
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  2,
	}, provider)
	require.NoError(t, err)

	booking := &model.Booking{
		AvailabilityID: created.ID,
		ClientName:     "Maria Silva",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "09:00",
		CreatedBy:      "REQ000001",
	}
	require.NoError(t, store.Bookings().CreateWithDecrement(ctx, booking))

	err = svc.Delete(ctx, created.ID, provider)
	assert.ErrorIs(t, err, ErrHasBookings)

	// Cancelled bookings no longer block deletion.
	require.NoError(t, store.Bookings().Cancel(ctx, booking.ID))
	assert.NoError(t, svc.Delete(ctx, created.ID, provider))
}
