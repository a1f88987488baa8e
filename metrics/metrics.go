package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalsathi_http_requests_total",
			Help: "HTTP requests handled, by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legalsathi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Consultations
	ConsultationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalsathi_consultation_transitions_total",
			Help: "Consultation lifecycle events, by event and origin",
		},
		[]string{"event", "origin"},
	)

	// Slots
	SlotsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legalsathi_slots_booked_total",
			Help: "Slots written into a lawyer ledger",
		},
	)

	SlotConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legalsathi_slot_conflicts_total",
			Help: "Booking attempts refused because the slot was taken",
		},
	)

	SlotsReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legalsathi_slots_released_total",
			Help: "Slots released back to a lawyer ledger",
		},
	)

	// Notifications
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalsathi_emails_sent_total",
			Help: "Notification emails, by template and result",
		},
		[]string{"template", "status"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalsathi_rate_limited_total",
			Help: "Requests refused by the rate limiter, by scope",
		},
		[]string{"scope"},
	)
)
