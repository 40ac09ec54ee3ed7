package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tutfree"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open realtime connections.",
		},
	)

	eventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Realtime events dispatched by topic.",
		},
		[]string{"topic"},
	)

	framesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_frames_dropped_total",
			Help:      "Frames dropped because a client send queue was full.",
		},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking lifecycle transitions by status.",
		},
		[]string{"status"},
	)

	twoGISRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "twogis_requests_total",
			Help:      "Directory upstream requests by operation and result.",
		},
		[]string{"op", "result"},
	)

	staleStatuses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_statuses_reset_total",
			Help:      "free_now statuses reset to busy by the janitor.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			wsConnections,
			eventsDispatched,
			framesDropped,
			bookings,
			twoGISRequests,
			staleStatuses,
		)
	})
}

func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

func WSConnected() {
	wsConnections.Inc()
}

func WSDisconnected() {
	wsConnections.Dec()
}

func IncEvent(topic string) {
	eventsDispatched.WithLabelValues(topic).Inc()
}

func IncDropped() {
	framesDropped.Inc()
}

func IncBooking(status string) {
	bookings.WithLabelValues(status).Inc()
}

func IncTwoGIS(op, result string) {
	twoGISRequests.WithLabelValues(op, result).Inc()
}

func AddStaleReset(n int) {
	staleStatuses.Add(float64(n))
}
