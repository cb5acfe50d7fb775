package stats

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/internal/repository"
)

const cacheKey = "admin_stats"

// Service computes the admin dashboard aggregate. The numbers are derived
// from current state on every miss; a short cache keeps repeated
// dashboard polls off the store.
type Service struct {
	codeRepo    repository.AccessCodeRepository
	bookingRepo repository.BookingRepository
	cache       *gocache.Cache
}

func NewService(codeRepo repository.AccessCodeRepository, bookingRepo repository.BookingRepository) *Service {
	return &Service{
		codeRepo:    codeRepo,
		bookingRepo: bookingRepo,
		cache:       gocache.New(30*time.Second, time.Minute),
	}
}

func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.Stats), nil
	}

	byRole, err := s.codeRepo.CountActiveByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count access codes: %w", err)
	}

	confirmed, err := s.bookingRepo.CountConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	stats := &model.Stats{
		ActiveCodesByRole: byRole,
		ConfirmedBookings: confirmed,
	}
	s.cache.Set(cacheKey, stats, gocache.DefaultExpiration)
	return stats, nil
}
