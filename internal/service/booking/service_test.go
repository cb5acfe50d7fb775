package booking

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository/memory"
)

var requester = model.Identity{Code: "REQ000001", Role: model.RoleRequester}

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store.Bookings(), store.Availabilities(), store.Outbox(), nil), store
}

func seedAvailability(t *testing.T, store *memory.Store, capacity int) *model.Availability {
	t.Helper()
	availability := &model.Availability{
		Date:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      "09:00",
		EndTime:        "11:00",
		Capacity:       capacity,
		RemainingSlots: capacity,
		CreatedBy:      "PRV000001",
	}
	require.NoError(t, store.Availabilities().Create(context.Background(), availability))
	return availability
}

func TestCreateDecrementsRemainingSlots(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	availability := seedAvailability(t, store, 3)

	booking, err := svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Maria Silva",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "09:00",
	}, requester)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, requester.Code, booking.CreatedBy)

	got, err := store.Availabilities().Get(ctx, availability.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RemainingSlots)
	assert.Equal(t, 3, got.Capacity)
}

func TestCreateEnqueuesConfirmationEvent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	availability := seedAvailability(t, store, 1)

	booking, err := svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Maria Silva",
		ClientEmail:    "maria@example.com",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "10:00",
	}, requester)
	require.NoError(t, err)

	events, err := store.Outbox().GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "booking_confirmed", events[0].EventType)

	var payload model.BookingConfirmedEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, booking.ID, payload.BookingID)
	assert.Equal(t, "2026-03-10", payload.Date)
	assert.Equal(t, "10:00", payload.TimeSlot)
	assert.Equal(t, "maria@example.com", payload.ClientEmail)
}

func TestCreateRejectsSlotOutsideWindow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	availability := seedAvailability(t, store, 2)

	for _, slot := range []string{"08:00", "11:00", "12:30", "nine"} {
		_, err := svc.Create(ctx, &model.CreateBookingRequest{
			AvailabilityID: availability.ID,
			ClientName:     "Maria Silva",
			ServiceNumber:  "SVC-001",
			TimeSlot:       slot,
		}, requester)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot, "slot %q", slot)
	}

	// End of the window is exclusive, the last bookable minute is before it.
	_, err := svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Maria Silva",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "10:59",
	}, requester)
	assert.NoError(t, err)
}

func TestCreateUnknownAvailability(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &model.CreateBookingRequest{
		AvailabilityID: uuid.New(),
		ClientName:     "Maria Silva",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "09:00",
	}, requester)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

func TestCreateSlotsExhausted(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	availability := seedAvailability(t, store, 1)

	_, err := svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Maria Silva",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "09:00",
	}, requester)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Joao Souza",
		ServiceNumber:  "SVC-002",
		TimeSlot:       "09:30",
	}, requester)
	assert.ErrorIs(t, err, ErrSlotsExhausted)

	got, err := store.Availabilities().Get(ctx, availability.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingSlots)
}

// Many requesters race for fewer slots: exactly capacity bookings commit,
// the rest fail with ErrSlotsExhausted, and remaining slots land on zero.
func TestConcurrentBookingsNeverOversell(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const capacity = 5
	const attempts = 40
	availability := seedAvailability(t, store, capacity)

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, &model.CreateBookingRequest{
				AvailabilityID: availability.ID,
				ClientName:     "Concurrent Client",
				ServiceNumber:  "SVC-RACE",
				TimeSlot:       "09:00",
			}, requester)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, exhausted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrSlotsExhausted):
			exhausted++
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, attempts-capacity, exhausted)

	got, err := store.Availabilities().Get(ctx, availability.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RemainingSlots)

	confirmed, err := store.Bookings().CountConfirmedByAvailability(ctx, availability.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(capacity), confirmed)
}

func TestListByUserMostRecentFirst(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	availability := seedAvailability(t, store, 3)

	for _, num := range []string{"SVC-001", "SVC-002"} {
		_, err := svc.Create(ctx, &model.CreateBookingRequest{
			AvailabilityID: availability.ID,
			ClientName:     "Maria Silva",
			ServiceNumber:  num,
			TimeSlot:       "09:00",
		}, requester)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	other := model.Identity{Code: "REQ999999", Role: model.RoleRequester}
	_, err := svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Joao Souza",
		ServiceNumber:  "SVC-003",
		TimeSlot:       "09:00",
	}, other)
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, requester.Code)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "SVC-002", mine[0].ServiceNumber)
	assert.Equal(t, "SVC-001", mine[1].ServiceNumber)

	all, err := svc.ListByAvailability(ctx, availability.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCancelKeepsSlotsMonotonic(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	availability := seedAvailability(t, store, 2)

	booking, err := svc.Create(ctx, &model.CreateBookingRequest{
		AvailabilityID: availability.ID,
		ClientName:     "Maria Silva",
		ServiceNumber:  "SVC-001",
		TimeSlot:       "09:00",
	}, requester)
	require.NoError(t, err)

	other := model.Identity{Code: "REQ999999", Role: model.RoleRequester}
	err = svc.Cancel(ctx, booking.ID, other)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Cancel(ctx, booking.ID, requester))

	got, err := svc.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)

	// Cancelling does not return the slot to the pool.
	updated, err := store.Availabilities().Get(ctx, availability.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RemainingSlots)
}
