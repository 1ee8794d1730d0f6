// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package metrics provides Prometheus metrics collection for observability.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format:
//
//	curl http://localhost:8080/metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// External service call metrics
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lyrimood_external_call_duration_seconds",
			Help:    "Duration of external service calls through the resilient executor",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	ExternalCallFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrimood_external_call_failures_total",
			Help: "Total external service call failures by classification",
		},
		[]string{"service", "kind"}, // kind: timeout, rate_limited, call_failed, internal
	)

	ExternalCallRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrimood_external_call_retries_total",
			Help: "Total retry attempts issued for external service calls",
		},
		[]string{"service"},
	)

	// Analysis pipeline metrics
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrimood_analysis_requests_total",
			Help: "Total mood analysis requests by outcome",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lyrimood_analysis_duration_seconds",
			Help:    "End-to-end duration of the analysis pipeline",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	// Audit persistence metrics
	AuditSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lyrimood_audit_save_failures_total",
			Help: "Total audit record persistence failures (swallowed by the pipeline)",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lyrimood_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrimood_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lyrimood_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveExternalCall records the duration of one external service call.
func ObserveExternalCall(service string, start time.Time) {
	ExternalCallDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
