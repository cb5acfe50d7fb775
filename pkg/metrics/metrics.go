package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	BookingsCreated   prometheus.Counter
	SlotsExhausted    prometheus.Counter
	BookingsCancelled prometheus.Counter

	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Total number of confirmed bookings",
		}),
		SlotsExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_slots_exhausted_total",
			Help:      "Total number of booking attempts rejected because no slots remained",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Total number of cancelled bookings",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}
