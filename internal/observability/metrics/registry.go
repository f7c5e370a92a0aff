// Package metrics holds process-level Prometheus metrics that do not belong
// to a single component.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildInfo is always 1 and carries the build as labels.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_insight_build_info",
			Help: "Build information of the running binary",
		},
		[]string{"version", "go_version"},
	)

	// StartTime is the process start as a unix timestamp.
	StartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "book_insight_start_time_seconds",
			Help: "Unix time when the service started",
		},
	)

	// Backends reports which provider serves each model role.
	Backends = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "book_insight_backend_info",
			Help: "Configured model backends (1 for the active provider of each role)",
		},
		[]string{"role", "provider"},
	)
)

// RecordStartup publishes build, start time and backend selection.
func RecordStartup(version string, started time.Time, summarizer, recognizer string) {
	BuildInfo.WithLabelValues(version, runtime.Version()).Set(1)
	StartTime.Set(float64(started.Unix()))
	Backends.WithLabelValues("summarizer", summarizer).Set(1)
	Backends.WithLabelValues("recognizer", recognizer).Set(1)
}
