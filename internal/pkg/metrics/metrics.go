package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collabhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// JoinRequestTransitions counts join requests entering each status.
	JoinRequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabhub_join_request_transitions_total",
			Help: "Join requests created or moved into a status",
		},
		[]string{"status"},
	)

	// ReconciliationRepairs counts reconciliation outcomes per approved request examined.
	ReconciliationRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabhub_reconciliation_repairs_total",
			Help: "Approved join requests examined by the reconciliation sweep, by outcome",
		},
		[]string{"outcome"},
	)

	// NotificationsDelivered counts live notification pushes by result.
	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabhub_notifications_pushed_total",
			Help: "Notifications pushed to connected websocket clients",
		},
		[]string{"result"},
	)
)
