package ner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
	"book-insight/internal/utils/text"
)

// LLMConfig configures the model-backed recognizers.
type LLMConfig struct {
	// Model is the provider model identifier. Empty selects the provider default.
	Model string

	// Timeout bounds one Recognize call over the whole book.
	Timeout time.Duration

	// WindowSize is the number of characters sent to the model per request.
	WindowSize int

	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string

	Retry retry.Config
}

// DefaultLLMConfig returns the defaults used by cmd/api.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Timeout:    5 * time.Minute,
		WindowSize: 8000,
		Retry:      retry.AIAPIConfig(),
	}
}

func (c LLMConfig) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1")
	}
	return nil
}

// nameLister asks a model for the people named in one passage.
type nameLister interface {
	listNames(ctx context.Context, passage string) ([]string, error)
}

// LLM recognizes people by asking a model for their names and locating the
// names in the text. Offsets therefore never depend on the model.
type LLM struct {
	provider       string
	lister         nameLister
	config         LLMConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
}

func newLLM(provider string, lister nameLister, cfg LLMConfig, cb circuitbreaker.Config) *LLM {
	return &LLM{
		provider:       provider,
		lister:         lister,
		config:         cfg,
		circuitBreaker: circuitbreaker.New(cb),
	}
}

// Recognize lists names window by window, then locates them in book.
func (l *LLM) Recognize(ctx context.Context, book string) (entities []entity.Entity, err error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	start := time.Now()
	defer func() { observe(l.provider, start, err) }()

	var names []string
	windows := text.Chunk(book, l.config.WindowSize)
	for i, window := range windows {
		found, err := l.listWindow(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("window %d of %d: %w", i+1, len(windows), err)
		}
		names = append(names, found...)
	}

	entities = Locate(book, names)
	slog.DebugContext(ctx, "model-backed recognition completed",
		slog.String("provider", l.provider),
		slog.Int("windows", len(windows)),
		slog.Int("names", len(names)),
		slog.Int("entities", len(entities)))
	return entities, nil
}

func (l *LLM) listWindow(ctx context.Context, window string) ([]string, error) {
	var names []string
	err := retry.WithBackoff(ctx, l.config.Retry, func() error {
		found, err := circuitbreaker.Do(l.circuitBreaker, func() ([]string, error) {
			return l.lister.listNames(ctx, window)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return ErrCircuitOpen
			}
			return err
		}
		names = found
		return nil
	})
	return names, err
}

// CircuitBreaker exposes the recognizer's breaker for health reporting.
func (l *LLM) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return l.circuitBreaker
}

const listNamesInstruction = "List every person or character named in the passage the user sends. " +
	"Copy each name exactly as it is written, once, and include nothing that is not a person. " +
	"Answer with a JSON object matching this schema and nothing else:\n"
