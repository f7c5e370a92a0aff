// Package summarizer provides model-backed chunk summarization.
// It includes adapters for Claude (Anthropic), OpenAI and Gemini wrapped in
// retry, circuit breaker and rate limiting, plus a NoOp adapter for local runs.
package summarizer

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

// ErrEmptySummary is returned when the model answers with no text.
var ErrEmptySummary = errors.New("model returned empty summary")

const truncationNote = "..."

// base carries the reliability and observability plumbing shared by the
// API-backed adapters.
type base struct {
	service         string
	config          Config
	circuitBreaker  *circuitbreaker.CircuitBreaker
	limiter         *RateLimiter
	metricsRecorder SummaryMetricsRecorder
	tokens          *text.TokenCounter
}

func newBase(service string, cfg Config, cb circuitbreaker.Config) base {
	return base{
		service:         service,
		config:          cfg,
		circuitBreaker:  circuitbreaker.New(cb),
		limiter:         NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		metricsRecorder: NewPrometheusSummaryMetrics(),
		tokens:          text.NewTokenCounter(text.DefaultEncoding),
	}
}

// CircuitBreaker exposes the adapter's breaker for health reporting.
func (b *base) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return b.circuitBreaker
}

// run executes call with the configured timeout, retry, rate limit and
// circuit breaker.
func (b *base) run(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, b.config.Retry, func() error {
		if err := b.limiter.Allow(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		summary, err := circuitbreaker.Do(b.circuitBreaker, func() (string, error) {
			return call(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				slog.WarnContext(ctx, "circuit breaker open, request rejected",
					slog.String("service", b.service),
					slog.String("state", b.circuitBreaker.State().String()))
				return fmt.Errorf("%s unavailable: circuit breaker open", b.service)
			}
			return err
		}

		result = summary
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("%s summarize failed: %w", b.service, retryErr)
	}
	return result, nil
}

// prepare truncates oversized input and builds the prompt.
func (b *base) prepare(ctx context.Context, input string, length entity.Length) string {
	runes := []rune(input)
	if len(runes) > b.config.MaxInputChars {
		input = string(runes[:b.config.MaxInputChars]) + truncationNote
		slog.WarnContext(ctx, "chunk truncated before summarization",
			slog.String("service", b.service),
			slog.Int("original_length", len(runes)),
			slog.Int("truncated_length", b.config.MaxInputChars))
	}

	slog.DebugContext(ctx, "Starting summarization",
		slog.String("service", b.service),
		slog.Int("input_length", text.CountRunes(input)),
		slog.Int("max_length", length.Max),
		slog.Int("min_length", length.Min))

	return buildPrompt(input, length)
}

// observe logs and records metrics for a completed call. It returns
// ErrEmptySummary when the model produced nothing usable.
func (b *base) observe(ctx context.Context, summary string, length entity.Length, duration time.Duration) error {
	if summary == "" {
		slog.ErrorContext(ctx, "model returned empty summary",
			slog.String("service", b.service),
			slog.Duration("duration", duration))
		return ErrEmptySummary
	}

	tokens := b.tokens.Count(summary)
	withinLimit := tokens >= length.Min && tokens <= length.Max

	slog.InfoContext(ctx, "Summarization completed",
		slog.String("service", b.service),
		slog.Int("summary_tokens", tokens),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	if tokens > length.Max {
		slog.WarnContext(ctx, "Summary exceeds max_length",
			slog.String("service", b.service),
			slog.Int("summary_tokens", tokens),
			slog.Int("limit", length.Max),
			slog.Int("excess", tokens-length.Max))
		b.metricsRecorder.RecordLimitExceeded()
	}

	b.metricsRecorder.RecordLength(tokens)
	b.metricsRecorder.RecordDuration(duration)
	b.metricsRecorder.RecordCompliance(withinLimit)
	return nil
}

const systemPrompt = "You summarize passages from novels. Keep character names exactly as written. " +
	"Reply with the summary only, without a preamble."

// buildPrompt asks for a summary whose length lies within the given bounds.
func buildPrompt(passage string, length entity.Length) string {
	return fmt.Sprintf("Summarize the following passage in %d to %d tokens.\n\n%s",
		length.Min, length.Max, passage)
}
