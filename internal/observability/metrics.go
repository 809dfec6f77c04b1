package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bus_backend", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bus_backend",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bus_backend", Name: "bookings_created_total", Help: "Total bookings created"})
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bus_backend", Name: "bookings_cancelled_total", Help: "Total bookings cancelled"})
	DriversDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bus_backend", Name: "drivers_deactivated_total", Help: "Drivers moved to Inactive by the license sweep"})
	DriversRestored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bus_backend", Name: "drivers_restored_total", Help: "Drivers restored by the license sweep"})
)
