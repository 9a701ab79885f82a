package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rrs_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "code", "method"},
	)

	ReservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rrs_reservations_created_total",
			Help: "Total reservations created",
		},
	)

	ReservationStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rrs_reservation_status_changes_total",
			Help: "Total reservation status changes",
		},
		[]string{"to"},
	)

	TableConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rrs_table_conflicts_total",
			Help: "Total reservation attempts rejected for a table conflict",
		},
	)

	DBTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rrs_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rrs_outbox_lag_seconds",
			Help: "Lag of outbox publishing",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rrs_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
