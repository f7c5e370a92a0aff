// Package observability groups the logging, metrics and tracing helpers.
//
// Subpackages:
//   - logging: slog loggers with request and trace correlation
//   - metrics: process-level Prometheus gauges (build, start time, backends)
//   - tracing: OpenTelemetry provider setup and HTTP server spans
//
// Component metrics live next to the code they measure, for example the
// pipeline counters in usecase/book and the model call histograms in
// infra/summarizer and infra/ner.
//
// Example usage:
//
//	import (
//	    "book-insight/internal/observability/logging"
//	    "book-insight/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    metrics.RecordStartup(version, time.Now(), "openai", "grpc")
//	    logger.Info("server starting")
//	}
package observability
