package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidCapacity  = errors.New("capacity must be at least 1")

	// ErrNotOwner is returned when a provider tries to delete an
	// availability created by someone else.
	ErrNotOwner = errors.New("availability belongs to another provider")

	// ErrHasBookings refuses deletion of an availability with confirmed
	// bookings; cancelling them first is up to the requesters.
	ErrHasBookings = errors.New("availability has confirmed bookings")
)

type Service struct {
	repo        repository.AvailabilityRepository
	bookingRepo repository.BookingRepository
}

func NewService(repo repository.AvailabilityRepository, bookingRepo repository.BookingRepository) *Service {
	return &Service{repo: repo, bookingRepo: bookingRepo}
}

// Create validates the window and publishes it with every slot free.
func (s *Service) Create(ctx context.Context, req *model.CreateAvailabilityRequest, identity model.Identity) (*model.Availability, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidTimeRange, req.Date)
	}

	if err := validateSpan(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	availability := &model.Availability{
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Capacity:       req.Capacity,
		RemainingSlots: req.Capacity,
		CreatedBy:      identity.Code,
	}
	if err := s.repo.Create(ctx, availability); err != nil {
		return nil, fmt.Errorf("failed to create availability: %w", err)
	}
	return availability, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	return s.repo.Get(ctx, id)
}

// ListByMonth returns the calendar month ordered by date, then start time.
func (s *Service) ListByMonth(ctx context.Context, year int, month int) ([]*model.Availability, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	return s.repo.ListByMonth(ctx, year, month)
}

// Delete hard-deletes an availability. Only its creator may delete it,
// and only while it has no confirmed bookings.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, identity model.Identity) error {
	availability, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if availability.CreatedBy != identity.Code {
		return ErrNotOwner
	}

	confirmed, err := s.bookingRepo.CountConfirmedByAvailability(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if confirmed > 0 {
		return ErrHasBookings
	}

	return s.repo.Delete(ctx, id)
}

func validateSpan(startStr, endStr string) error {
	start, err := model.ParseClock(startStr)
	if err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidTimeRange, startStr)
	}
	end, err := model.ParseClock(endStr)
	if err != nil {
		return fmt.Errorf("%w: invalid end time %q", ErrInvalidTimeRange, endStr)
	}

	span := end.Sub(start)
	if span <= 0 {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidTimeRange)
	}
	if span > model.MaxAvailabilitySpan {
		return fmt.Errorf("%w: span exceeds %v", ErrInvalidTimeRange, model.MaxAvailabilitySpan)
	}
	return nil
}
