package email

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/agendafacil/agenda-api/internal/config"
	"github.com/agendafacil/agenda-api/internal/model"
)

// Service sends transactional mail for booking lifecycle events.
type Service interface {
	SendBookingConfirmation(to string, event *model.BookingConfirmedEvent) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendBookingConfirmation(to string, event *model.BookingConfirmedEvent) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Booking confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your booking is confirmed.\n\nDate: %s\nTime: %s\nReference: %s\n",
		event.Date,
		event.TimeSlot,
		event.BookingID,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("booking_id", event.BookingID.String()).Msg("failed to send confirmation email")
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
