package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holidaze_requests_total",
			Help: "Total number of gateway requests",
		},
		[]string{"route", "code", "method"},
	)

	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holidaze_api_calls_total",
			Help: "Outbound calls to the remote Holidaze API",
		},
		[]string{"method", "code"},
	)

	APICallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "holidaze_api_call_seconds",
			Help:    "Duration of outbound calls to the remote Holidaze API",
			Buckets: prometheus.DefBuckets,
		},
	)

	APIKeyBootstrapRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "holidaze_api_key_bootstrap_retries_total",
			Help: "Total retries while provisioning an API key",
		},
	)

	BookingSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holidaze_booking_submissions_total",
			Help: "Booking draft submissions by outcome",
		},
		[]string{"outcome"},
	)

	DraftsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "holidaze_drafts_swept_total",
			Help: "Idle booking drafts discarded by the sweeper",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holidaze_events_published_total",
			Help: "Booking events relayed to the broker by outcome",
		},
		[]string{"type", "outcome"},
	)

	AuditRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holidaze_audit_records_total",
			Help: "Booking events written to the audit log by outcome",
		},
		[]string{"outcome"},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "holidaze_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
