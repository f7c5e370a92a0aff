// Package bootstrap builds the extraction service and its model backends
// from configuration. It is shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"book-insight/internal/config"
	"book-insight/internal/infra/ner"
	"book-insight/internal/infra/summarizer"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/usecase/book"
)

// Readiness reports whether a backend can take traffic.
type Readiness interface {
	Ready() bool
}

// breakerOwner is implemented by adapters guarded by a circuit breaker.
type breakerOwner interface {
	CircuitBreaker() *circuitbreaker.CircuitBreaker
}

// Components are the long-lived objects built at startup.
type Components struct {
	Service *book.Service

	// Breakers are nil for backends without one (noop).
	SummarizerBreaker *circuitbreaker.CircuitBreaker
	RecognizerBreaker *circuitbreaker.CircuitBreaker

	// Readiness is nil unless the recognizer holds a connection.
	Readiness Readiness

	closers []func() error
}

// Close releases backend connections.
func (c *Components) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// New builds the summarizer, the recognizer and the service for cfg.
func New(ctx context.Context, cfg *config.Config) (*Components, error) {
	sum, err := NewSummarizer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rec, err := NewRecognizer(cfg)
	if err != nil {
		return nil, err
	}

	c := &Components{
		Service: book.NewService(sum, rec, book.Options{
			Length:       cfg.Summarization.Length(),
			ChunkSize:    cfg.Summarization.ChunkSize,
			Concurrency:  cfg.Summarization.Concurrency,
			ChunkTimeout: cfg.Summarization.ChunkTimeout,
		}),
	}
	if b, ok := sum.(breakerOwner); ok {
		c.SummarizerBreaker = b.CircuitBreaker()
	}
	if b, ok := rec.(breakerOwner); ok {
		c.RecognizerBreaker = b.CircuitBreaker()
	}
	if g, ok := rec.(*ner.GRPC); ok {
		c.Readiness = g
		c.closers = append(c.closers, g.Close)
	}
	return c, nil
}

// NewSummarizer selects the summarization backend named by
// summarization.provider and puts the chunk cache in front of API backends.
func NewSummarizer(ctx context.Context, cfg *config.Config) (book.Summarizer, error) {
	s := cfg.Summarization
	inner, err := newProviderSummarizer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if s.CacheSize == 0 || s.Provider == config.ProviderNoop {
		return inner, nil
	}
	return summarizer.NewCached(inner, s.Provider+"/"+s.Model, s.CacheSize)
}

func newProviderSummarizer(ctx context.Context, cfg *config.Config) (summarizer.Summarizer, error) {
	s := cfg.Summarization
	sc := summarizer.DefaultConfig()
	sc.Model = s.Model
	sc.RequestsPerSecond = s.RequestsPerSecond
	sc.Burst = s.Burst

	switch s.Provider {
	case config.ProviderOpenAI:
		slog.Info("Using OpenAI API for summarization", slog.String("type", s.Provider))
		return summarizer.NewOpenAI(cfg.APIKeys.OpenAI, sc)
	case config.ProviderClaude:
		slog.Info("Using Claude API for summarization", slog.String("type", s.Provider))
		return summarizer.NewClaude(cfg.APIKeys.Anthropic, sc)
	case config.ProviderGemini:
		slog.Info("Using Gemini API for summarization", slog.String("type", s.Provider))
		return summarizer.NewGemini(ctx, cfg.APIKeys.Gemini, sc)
	case config.ProviderNoop:
		slog.Warn("Using NoOp summarizer, summaries are leading words only")
		return summarizer.NewNoOp(), nil
	default:
		return nil, fmt.Errorf("unknown summarization provider %q", s.Provider)
	}
}

// NewRecognizer selects the entity recognition backend named by ner.provider.
func NewRecognizer(cfg *config.Config) (book.Recognizer, error) {
	n := cfg.NER
	lc := llmConfig(n)

	switch n.Provider {
	case config.ProviderGRPC:
		return ner.NewGRPC(ner.GRPCConfig{Address: n.GRPCAddress, Timeout: n.Timeout})
	case config.ProviderClaude:
		slog.Info("Using Claude API for entity recognition", slog.String("type", n.Provider))
		return ner.NewClaude(cfg.APIKeys.Anthropic, lc)
	case config.ProviderOpenAI:
		slog.Info("Using OpenAI API for entity recognition", slog.String("type", n.Provider))
		return ner.NewOpenAI(cfg.APIKeys.OpenAI, lc)
	case config.ProviderNoop:
		slog.Warn("Using NoOp recognizer, no characters will be reported")
		return ner.NewNoOp(), nil
	default:
		return nil, fmt.Errorf("unknown ner provider %q", n.Provider)
	}
}

// llmConfig applies ner.model and ner.llm_timeout. ner.timeout only bounds
// the gRPC sidecar call, which is far shorter than window-by-window listing.
func llmConfig(n config.NERConfig) ner.LLMConfig {
	lc := ner.DefaultLLMConfig()
	lc.Model = n.Model
	lc.Timeout = n.LLMTimeout
	return lc
}
