package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

// DefaultOpenAIModel is used when Config.Model is empty.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI summarizes chunks with OpenAI's chat completion API.
type OpenAI struct {
	base
	client *openai.Client
}

// NewOpenAI creates an OpenAI summarizer with the given API key.
func NewOpenAI(apiKey string, cfg Config) (*OpenAI, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid openai configuration: %w", err)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAI{
		base:   newBase("openai-api", cfg, circuitbreaker.OpenAIAPIConfig()),
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Summarize condenses one chunk within the given length bounds.
func (o *OpenAI) Summarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	return o.run(ctx, func(ctx context.Context) (string, error) {
		return o.doSummarize(ctx, chunk, length)
	})
}

// doSummarize performs the API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	prompt := o.prepare(ctx, chunk, length)

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               o.config.Model,
		MaxCompletionTokens: o.config.responseTokens(length.Max),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("service", o.service),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", classifyOpenAIError(err))
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned no choices",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := o.observe(ctx, summary, length, duration); err != nil {
		return "", err
	}
	return summary, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retry.WithStatus(err, apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retry.WithStatus(err, reqErr.HTTPStatusCode)
	}
	return err
}
