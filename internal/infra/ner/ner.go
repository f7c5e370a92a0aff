// Package ner provides entity recognizers that return person spans for a
// book text. Offsets are rune positions, end-exclusive.
//
// Three backends are available: a gRPC client for a spaCy-style sidecar,
// model-backed recognizers (Claude, OpenAI) that list names and locate them
// in the text, and a NoOp recognizer for local runs.
package ner

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Common errors
var (
	// ErrUnavailable indicates the recognizer backend cannot be reached.
	ErrUnavailable = errors.New("entity recognizer unavailable")

	// ErrCircuitOpen indicates too many recent failures.
	ErrCircuitOpen = errors.New("entity recognizer temporarily disabled (circuit breaker open)")

	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("entity recognition timed out")

	// ErrInvalidResponse indicates the backend answered with something unparseable.
	ErrInvalidResponse = errors.New("invalid entity recognizer response")
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ner_requests_total",
			Help: "Total number of entity recognition requests",
		},
		[]string{"provider", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ner_request_duration_seconds",
			Help:    "Entity recognition request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)
)

func observe(provider string, start time.Time, err error) {
	requestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	requestsTotal.WithLabelValues(provider, status).Inc()
}
