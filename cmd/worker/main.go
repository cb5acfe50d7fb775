package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/agendafacil/agenda-api/internal/config"
	"github.com/agendafacil/agenda-api/internal/email"
	"github.com/agendafacil/agenda-api/internal/model"
	"github.com/agendafacil/agenda-api/pkg/logger"
	redisBroker "github.com/agendafacil/agenda-api/pkg/messaging/redis"
)

const bookingConfirmedChannel = "booking_confirmed"

func setupHealthCheck(logger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			logger.Error(err, "Health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	l := logger.NewLogger(nil)

	zl := log.Logger
	broker, err := redisBroker.NewRedisBroker(cfg.Redis.URL, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	mailer := email.NewService(cfg.SMTP)

	setupHealthCheck(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Shutting down...")
		cancel()
	}()

	messages, err := broker.Subscribe(ctx, bookingConfirmedChannel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to subscribe to channel")
	}

	l.Info("Worker started", "channel", bookingConfirmedChannel)

	for {
		select {
		case <-ctx.Done():
			l.Info("Worker shutting down")
			return
		case msg, ok := <-messages:
			if !ok {
				l.Info("Subscription closed")
				return
			}
			handleMessage(l, mailer, msg)
		}
	}
}

func handleMessage(l *logger.Logger, mailer email.Service, msg []byte) {
	var event model.BookingConfirmedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		l.Error(err, "Failed to decode event payload")
		return
	}

	// Bookings without a contact address produce no mail.
	if event.ClientEmail == "" {
		l.Debug("Booking has no client email, skipping", "booking_id", event.BookingID.String())
		return
	}

	if err := mailer.SendBookingConfirmation(event.ClientEmail, &event); err != nil {
		l.Error(err, "Failed to send confirmation email", "booking_id", event.BookingID.String())
	}
}
