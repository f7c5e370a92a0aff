// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs the process tracer provider and W3C propagators. Middleware
// opens a server span per HTTP request, and GetTracer is used by the
// extraction pipeline for its child spans (book.Extract, book.Summarize,
// book.ExtractCharacters).
//
// Example usage:
//
//	import "book-insight/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.Init(version)
//	    defer shutdown(context.Background())
//	}
//
//	func process(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process")
//	    defer span.End()
//	}
package tracing
