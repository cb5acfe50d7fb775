package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/agendafacil/agenda-api/internal/config"
	"github.com/agendafacil/agenda-api/internal/handler"
	accesscodeHandler "github.com/agendafacil/agenda-api/internal/handler/accesscode"
	authHandler "github.com/agendafacil/agenda-api/internal/handler/auth"
	availabilityHandler "github.com/agendafacil/agenda-api/internal/handler/availability"
	bookingHandler "github.com/agendafacil/agenda-api/internal/handler/booking"
	statsHandler "github.com/agendafacil/agenda-api/internal/handler/stats"
	"github.com/agendafacil/agenda-api/internal/middleware"
	"github.com/agendafacil/agenda-api/internal/repository/postgres"
	"github.com/agendafacil/agenda-api/internal/router"
	accesscodeService "github.com/agendafacil/agenda-api/internal/service/accesscode"
	authService "github.com/agendafacil/agenda-api/internal/service/auth"
	availabilityService "github.com/agendafacil/agenda-api/internal/service/availability"
	bookingService "github.com/agendafacil/agenda-api/internal/service/booking"
	statsService "github.com/agendafacil/agenda-api/internal/service/stats"
	"github.com/agendafacil/agenda-api/pkg/auth"
	"github.com/agendafacil/agenda-api/pkg/logger"
	redisBroker "github.com/agendafacil/agenda-api/pkg/messaging/redis"
	"github.com/agendafacil/agenda-api/pkg/metrics"
	"github.com/agendafacil/agenda-api/pkg/session"
	"github.com/agendafacil/agenda-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	accessCodeRepo := postgres.NewAccessCodeRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Token revocation store. Falls back to in-process storage when no
	// Redis is configured, which only suits a single instance.
	var sessions session.RevocationStore
	if cfg.Redis.URL != "" {
		sessions, err = session.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	} else {
		log.Warn().Msg("no Redis URL configured, using in-memory session store")
		sessions = session.NewMemoryStore()
	}
	defer sessions.Close()

	m := metrics.NewMetrics("agenda")

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(accessCodeRepo, jwtSvc, sessions)
	accessCodeSvc := accesscodeService.NewService(accessCodeRepo)
	availabilitySvc := availabilityService.NewService(availabilityRepo, bookingRepo)
	bookingSvc := bookingService.NewService(bookingRepo, availabilityRepo, outboxRepo, m)
	statsSvc := statsService.NewService(accessCodeRepo, bookingRepo)

	if err := accessCodeSvc.EnsureBootstrapCode(context.Background(), cfg.Bootstrap.AdminCode); err != nil {
		log.Fatal().Err(err).Msg("failed to seed bootstrap admin code")
	}

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler()
	authH := authHandler.NewHandler(authSvc)
	accessCodeH := accesscodeHandler.NewHandler(accessCodeSvc)
	availabilityH := availabilityHandler.NewHandler(availabilitySvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	statsH := statsHandler.NewHandler(statsSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		accessCodeH,
		availabilityH,
		bookingH,
		statsH,
		h,
		router.Config{
			RateLimit:     rate.Limit(50),
			RateBurst:     100,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "agenda_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	if cfg.Outbox.Enabled {
		zl := log.Logger
		broker, err := redisBroker.NewRedisBroker(cfg.Redis.URL, &zl)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis broker")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  time.Duration(cfg.Outbox.IntervalSeconds) * time.Second,
			RetryAttempts: 3,
			RetryDelay:    time.Second,
		}, logger.NewLogger(nil), m)
		go processor.Start(context.Background())
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
