package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	ReadingsRecorded   prometheus.Counter
	CriticalAlerts     *prometheus.CounterVec
	NotificationsSent  *prometheus.CounterVec
	AnalyticsRuns      prometheus.Counter
	AnalyticsLatency   prometheus.Histogram
	AppointmentsBooked prometheus.Counter
	BookingConflicts   prometheus.Counter
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		ReadingsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_readings_recorded_total",
			Help:      "Total number of health readings stored",
		}),
		CriticalAlerts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "critical_alerts_total",
			Help:      "Total number of critical-value alerts raised",
		}, []string{"metric"}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Total number of notifications created",
		}, []string{"type", "priority"}),
		AnalyticsRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_runs_total",
			Help:      "Total number of patient analytics computations",
		}),
		AnalyticsLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_duration_seconds",
			Help:      "Time spent computing patient analytics",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AppointmentsBooked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_booked_total",
			Help:      "Total number of appointments created",
		}),
		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Total number of bookings rejected because the slot was taken",
		}),
	}
}
