package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/agendafacil/agenda-api/internal/handler"
	accesscodeHandler "github.com/agendafacil/agenda-api/internal/handler/accesscode"
	authHandler "github.com/agendafacil/agenda-api/internal/handler/auth"
	availabilityHandler "github.com/agendafacil/agenda-api/internal/handler/availability"
	bookingHandler "github.com/agendafacil/agenda-api/internal/handler/booking"
	statsHandler "github.com/agendafacil/agenda-api/internal/handler/stats"
	"github.com/agendafacil/agenda-api/internal/middleware"
	"github.com/agendafacil/agenda-api/internal/model"
)

type Router struct {
	engine         *gin.Engine
	auth           *middleware.AuthMiddleware
	authH          *authHandler.Handler
	accessCodeH    *accesscodeHandler.Handler
	availabilityH  *availabilityHandler.Handler
	bookingH       *bookingHandler.Handler
	statsH         *statsHandler.Handler
	h              *handler.Handler
	metrics        *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	accessCodeH *accesscodeHandler.Handler,
	availabilityH *availabilityHandler.Handler,
	bookingH *bookingHandler.Handler,
	statsH *statsHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	registerValidations()

	engine := gin.New()

	metrics := initRouterMetrics(config.MetricsPrefix)

	r := &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		accessCodeH:   accessCodeH,
		availabilityH: availabilityH,
		bookingH:      bookingH,
		statsH:        statsH,
		h:             h,
		metrics:       metrics,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.DefaultTimeoutConfig()),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	// Public routes
	r.authH.RegisterRoutes(api)

	// Any authenticated role
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)
	r.availabilityH.RegisterRoutes(protected)
	r.bookingH.RegisterRoutes(protected)

	// Role-gated routes
	admin := api.Group("")
	admin.Use(r.auth.Authenticate(), r.auth.RequireRole(model.RoleAdmin))
	r.accessCodeH.RegisterRoutes(admin)
	r.statsH.RegisterRoutes(admin)

	provider := api.Group("")
	provider.Use(r.auth.Authenticate(), r.auth.RequireRole(model.RoleProvider))
	r.availabilityH.RegisterProviderRoutes(provider)

	requester := api.Group("")
	requester.Use(r.auth.Authenticate(), r.auth.RequireRole(model.RoleRequester))
	r.bookingH.RegisterRequesterRoutes(requester)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// registerValidations adds the hhmm tag used by time-of-day fields.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := model.ParseClock(fl.Field().String())
			return err == nil
		})
	}
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
