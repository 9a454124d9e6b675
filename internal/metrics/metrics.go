// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yamdb_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yamdb_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RatingRecomputations counts title rating refreshes by the review write that caused them.
	RatingRecomputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yamdb_rating_recomputations_total",
		Help: "Total number of title rating recomputations",
	}, []string{"operation"})

	// ConfirmationCodesIssued counts confirmation codes generated.
	ConfirmationCodesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yamdb_confirmation_codes_issued_total",
		Help: "Total number of confirmation codes issued",
	})

	// TokensIssued counts bearer tokens handed out by the code exchange.
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yamdb_tokens_issued_total",
		Help: "Total number of access tokens issued",
	})

	// MailDeliveries counts outgoing mail by result ("sent", "failed", "dropped").
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yamdb_mail_deliveries_total",
		Help: "Total number of confirmation mails by delivery result",
	}, []string{"result"})

	// RateLimited counts requests rejected by the code request limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yamdb_rate_limited_total",
		Help: "Total number of requests rejected by rate limiting",
	})
)
