package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

// DefaultClaudeModel is used when Config.Model is empty.
const DefaultClaudeModel = string(anthropic.ModelClaudeHaiku4_5)

// Claude summarizes chunks with Anthropic's Messages API.
type Claude struct {
	base
	client anthropic.Client
}

// NewClaude creates a Claude summarizer with the given API key.
func NewClaude(apiKey string, cfg Config) (*Claude, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid claude configuration: %w", err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// retries are handled by retry.WithBackoff
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		base:   newBase("claude-api", cfg, circuitbreaker.ClaudeAPIConfig()),
		client: anthropic.NewClient(opts...),
	}, nil
}

// Summarize condenses one chunk within the given length bounds.
func (c *Claude) Summarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	return c.run(ctx, func(ctx context.Context) (string, error) {
		return c.doSummarize(ctx, chunk, length)
	})
}

// doSummarize performs the API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	prompt := c.prepare(ctx, chunk, length)

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.responseTokens(length.Max)),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("service", c.service),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", classifyClaudeError(err))
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	summary := strings.TrimSpace(sb.String())

	if err := c.observe(ctx, summary, length, duration); err != nil {
		return "", err
	}
	return summary, nil
}

func classifyClaudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.WithStatus(err, apiErr.StatusCode)
	}
	return err
}
