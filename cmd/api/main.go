package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"book-insight/internal/bootstrap"
	"book-insight/internal/config"
	"book-insight/internal/observability/logging"
	"book-insight/internal/observability/metrics"
	"book-insight/internal/observability/tracing"

	hhttp "book-insight/internal/handler/http"
	hbook "book-insight/internal/handler/http/book"
	"book-insight/internal/handler/http/requestid"
)

// @title           Book Insight API
// @version         1.0
// @description     Summarizes book texts chunk by chunk and lists the characters
// @description     they mention with the character spans of every occurrence.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// buildVersion is overridden at build time with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	logger := initLogger()
	appVersion := getVersion()

	cfg := loadConfig(logger)

	shutdownTracing := tracing.Init(appVersion)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to stop tracer provider", slog.Any("error", err))
		}
	}()

	components, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize backends", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("failed to close backends", slog.Any("error", err))
		}
	}()

	metrics.RecordStartup(appVersion, time.Now(), cfg.Summarization.Provider, cfg.NER.Provider)

	handler := setupServer(logger, cfg, components, appVersion)
	runServer(logger, cfg, handler, appVersion)
}

// initLogger initializes the process logger and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads CONFIG_PATH (or config.yaml) and the environment, and
// exits when the result is invalid or an API key is missing.
func loadConfig(logger *slog.Logger) *config.Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("path", path), slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.RequireAPIKeys(); err != nil {
		logger.Error("missing API key", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("summarizer", cfg.Summarization.Provider),
		slog.String("recognizer", cfg.NER.Provider),
		slog.Int("chunk_size", cfg.Summarization.ChunkSize),
		slog.Int("concurrency", cfg.Summarization.Concurrency))
	return cfg
}

// getVersion returns the VERSION environment variable or the build version.
func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return buildVersion
}

// setupServer registers the routes and wraps them in the middleware chain.
func setupServer(logger *slog.Logger, cfg *config.Config, c *bootstrap.Components, version string) http.Handler {
	mux := http.NewServeMux()

	hbook.Register(mux, c.Service)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version:           version,
		SummarizerBreaker: c.SummarizerBreaker,
		RecognizerBreaker: c.RecognizerBreaker,
		Recognizer:        c.Readiness,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Recognizer: c.Readiness})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Outermost first. Recover sits outside Timeout so panics re-raised by
	// the timeout goroutine are still converted to 500.
	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.Recover(logger),
		hhttp.Timeout(cfg.Server.RequestTimeout),
		hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes),
	)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.Config, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		ReadTimeout:       time.Minute,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	// In-flight extractions that outlived the grace period are cancelled.
	cancel()
	logger.Info("server stopped")
}
