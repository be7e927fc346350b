// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package metrics exposes Prometheus collectors for the gateway:
// API request throughput and latency, in-flight requests, and outbound
// TBA request outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts handled HTTP requests.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_api_requests_total",
			Help: "Total number of API requests handled",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration tracks handler latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kestrel_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ActiveRequests gauges requests currently in flight.
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kestrel_api_active_requests",
			Help: "Number of API requests currently being handled",
		},
	)

	// TBARequests counts outbound requests to The Blue Alliance by outcome.
	TBARequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_tba_requests_total",
			Help: "Total number of outbound TBA API requests",
		},
		[]string{"outcome"}, // "ok", "unavailable"
	)
)

// RecordAPIRequest records one handled request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequests.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(active bool) {
	if active {
		ActiveRequests.Inc()
	} else {
		ActiveRequests.Dec()
	}
}

// RecordTBARequest records one outbound TBA request outcome.
func RecordTBARequest(outcome string) {
	TBARequests.WithLabelValues(outcome).Inc()
}
