package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking metrics
	BookingsTotal       prometheus.Counter
	BookingFailures     *prometheus.CounterVec
	CancellationsTotal  prometheus.Counter
	AppointmentsByState *prometheus.GaugeVec

	// AI metrics
	AIRequests      *prometheus.CounterVec
	AILatency       prometheus.Histogram
	AIEmptyResults  prometheus.Counter
	AIParseFailures prometheus.Counter
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		BookingsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Total number of successful bookings",
		}),
		BookingFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_failures_total",
			Help:      "Total number of rejected booking attempts",
		}, []string{"reason"}),
		CancellationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Total number of cancelled appointments",
		}),
		AppointmentsByState: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "appointments",
			Help:      "Current number of appointments per status",
		}, []string{"status"}),

		AIRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total number of AI model calls",
		}, []string{"operation", "status"}),
		AILatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "Duration of AI model calls",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
		}),
		AIEmptyResults: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_empty_results_total",
			Help:      "Total number of AI calls that produced no recommendation",
		}),
		AIParseFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_parse_failures_total",
			Help:      "Total number of model replies that failed JSON extraction",
		}),
	}
}
