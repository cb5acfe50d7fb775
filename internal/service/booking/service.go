package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
	"github.com/agendafacil/agenda-api/pkg/metrics"
)

var (
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrSlotsExhausted       = errors.New("no remaining slots for this availability")

	// ErrInvalidTimeSlot means the requested slot falls outside the
	// availability's time span.
	ErrInvalidTimeSlot = errors.New("time slot outside availability window")

	ErrNotOwner = errors.New("booking belongs to another requester")
)

const eventBookingConfirmed = "booking_confirmed"

type Service struct {
	repo             repository.BookingRepository
	availabilityRepo repository.AvailabilityRepository
	outboxRepo       repository.OutboxRepository
	metrics          *metrics.Metrics
}

func NewService(repo repository.BookingRepository, availabilityRepo repository.AvailabilityRepository,
	outboxRepo repository.OutboxRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:             repo,
		availabilityRepo: availabilityRepo,
		outboxRepo:       outboxRepo,
		metrics:          m,
	}
}

// Create confirms a booking against an availability. The slot check and
// decrement are one atomic unit in the store; under concurrent attempts
// at most remaining_slots of them succeed and the rest get
// ErrSlotsExhausted.
func (s *Service) Create(ctx context.Context, req *model.CreateBookingRequest, identity model.Identity) (*model.Booking, error) {
	availability, err := s.availabilityRepo.Get(ctx, req.AvailabilityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	if err := validateTimeSlot(req.TimeSlot, availability); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		AvailabilityID: availability.ID,
		ClientName:     req.ClientName,
		ClientDocument: req.ClientDocument,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		ServiceNumber:  req.ServiceNumber,
		TimeSlot:       req.TimeSlot,
		Comments:       req.Comments,
		CreatedBy:      identity.Code,
	}

	if err := s.repo.CreateWithDecrement(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotsExhausted):
			if s.metrics != nil {
				s.metrics.SlotsExhausted.Inc()
			}
			return nil, ErrSlotsExhausted
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAvailabilityNotFound
		default:
			// The store could not commit the booking and the decrement
			// together. Nothing is persisted, but this is the one failure
			// mode that threatens ledger consistency, so it is logged as
			// an integrity concern rather than a plain request error.
			log.Error().
				Err(err).
				Str("availability_id", availability.ID.String()).
				Str("created_by", identity.Code).
				Msg("booking write failed, slot ledger integrity at risk")
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.enqueueConfirmation(ctx, booking, availability)

	return booking, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, code string) ([]*model.Booking, error) {
	return s.repo.ListByUser(ctx, code)
}

func (s *Service) ListByAvailability(ctx context.Context, availabilityID uuid.UUID) ([]*model.Booking, error) {
	return s.repo.ListByAvailability(ctx, availabilityID)
}

// Cancel marks a booking cancelled. Remaining slots are not re-credited;
// freeing a slot is an administrative correction, not a side effect.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, identity model.Identity) error {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if booking.CreatedBy != identity.Code {
		return ErrNotOwner
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	return nil
}

// enqueueConfirmation records the outbox event for the notification
// pipeline. Failure here never affects the committed booking.
func (s *Service) enqueueConfirmation(ctx context.Context, booking *model.Booking, availability *model.Availability) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(model.BookingConfirmedEvent{
		BookingID:      booking.ID,
		AvailabilityID: availability.ID,
		ClientName:     booking.ClientName,
		ClientEmail:    booking.ClientEmail,
		Date:           availability.Date.Format("2006-01-02"),
		TimeSlot:       booking.TimeSlot,
		ServiceNumber:  booking.ServiceNumber,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal booking event")
		return
	}

	event := &model.OutboxEvent{
		EventType: eventBookingConfirmed,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to enqueue booking event")
	}
}

func validateTimeSlot(slot string, availability *model.Availability) error {
	t, err := model.ParseClock(slot)
	if err != nil {
		return fmt.Errorf("%w: invalid time %q", ErrInvalidTimeSlot, slot)
	}
	start, err := model.ParseClock(availability.StartTime)
	if err != nil {
		return fmt.Errorf("availability has invalid start time: %w", err)
	}
	end, err := model.ParseClock(availability.EndTime)
	if err != nil {
		return fmt.Errorf("availability has invalid end time: %w", err)
	}

	if t.Before(start) || !t.Before(end) {
		return ErrInvalidTimeSlot
	}
	return nil
}
