package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/agendafacil/agenda-api/internal/repository"
)

type accessCodeRepository struct {
	db *sqlx.DB
}

type availabilityRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewAccessCodeRepository(db *sqlx.DB) repository.AccessCodeRepository {
	return &accessCodeRepository{db: db}
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
