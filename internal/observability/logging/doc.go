// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. The process logger is built once in
// main with NewLogger and installed with slog.SetDefault; request-scoped code
// derives a child logger with WithRequestID so every entry can be joined to
// the access log line and the trace of the request.
//
// Example usage:
//
//	import "book-insight/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    slog.SetDefault(logger)
//	    logger.Info("server starting", slog.String("addr", ":8080"))
//	}
//
//	func (s *Service) Extract(ctx context.Context, text string) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("book extraction completed")
//	}
package logging
