// Package http provides the HTTP transport for the extraction service:
// health and readiness probes, metrics, and the middleware shared by all routes.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"book-insight/internal/resilience/circuitbreaker"
)

// Check status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ReadinessChecker reports whether a backend can take traffic.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler reports the state of the model backends.
//
// An open summarizer breaker only degrades the service, since failed chunks
// fall back to a placeholder. An open recognizer breaker or a recognizer that
// is not ready makes it unhealthy, since every extraction would fail.
type HealthHandler struct {
	Version string

	SummarizerBreaker *circuitbreaker.CircuitBreaker
	RecognizerBreaker *circuitbreaker.CircuitBreaker

	// Recognizer is optional; recognizers without a connection are always ready.
	Recognizer ReadinessChecker
}

// ServeHTTP returns 200 when healthy or degraded and 503 when unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.SummarizerBreaker != nil {
		check := breakerCheck(h.SummarizerBreaker)
		if check.Status == StatusUnhealthy {
			check.Status = StatusDegraded
			check.Message = "summaries fall back to placeholders"
		}
		checks["summarizer"] = check
	}

	if h.RecognizerBreaker != nil || h.Recognizer != nil {
		check := CheckStatus{Status: StatusHealthy, Details: map[string]any{}}
		if h.RecognizerBreaker != nil {
			check = breakerCheck(h.RecognizerBreaker)
		}
		if h.Recognizer != nil {
			ready := h.Recognizer.Ready()
			check.Details["ready"] = ready
			if !ready {
				check.Status = StatusUnhealthy
				check.Message = "recognizer not ready"
			}
		}
		checks["recognizer"] = check
	}

	status := StatusHealthy
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("health: failed to encode response", slog.Any("error", err))
	}
}

func breakerCheck(cb *circuitbreaker.CircuitBreaker) CheckStatus {
	state := cb.State()
	check := CheckStatus{
		Status: StatusHealthy,
		Details: map[string]any{
			"circuit_breaker": cb.Name(),
			"state":           state.String(),
		},
	}
	switch state {
	case gobreaker.StateOpen:
		check.Status = StatusUnhealthy
		check.Message = "circuit breaker open"
	case gobreaker.StateHalfOpen:
		check.Status = StatusDegraded
		check.Message = "circuit breaker half-open"
	}
	return check
}

// ReadyHandler handles Kubernetes readiness probe requests.
// It reports not ready while the recognizer cannot take traffic.
type ReadyHandler struct {
	Recognizer ReadinessChecker
}

// ServeHTTP returns 200 OK when ready and 503 Service Unavailable otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Recognizer != nil && !h.Recognizer.Ready() {
		http.Error(w, "recognizer not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Error("ready: failed to write response", slog.Any("error", err))
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Error("alive: failed to write response", slog.Any("error", err))
	}
}
