package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

// DefaultGeminiModel is used when Config.Model is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini summarizes chunks with Google's Gemini API.
type Gemini struct {
	base
	client *genai.Client
}

// NewGemini creates a Gemini summarizer with the given API key.
func NewGemini(ctx context.Context, apiKey string, cfg Config) (*Gemini, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gemini configuration: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	slog.Info("Initialized Gemini summarizer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Gemini{
		base:   newBase("gemini-api", cfg, circuitbreaker.GeminiAPIConfig()),
		client: client,
	}, nil
}

// Summarize condenses one chunk within the given length bounds.
func (g *Gemini) Summarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	return g.run(ctx, func(ctx context.Context) (string, error) {
		return g.doSummarize(ctx, chunk, length)
	})
}

func (g *Gemini) doSummarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	prompt := g.prepare(ctx, chunk, length)

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		MaxOutputTokens:   int32(g.config.responseTokens(length.Max)),
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("service", g.service),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("gemini api error: %w", classifyGeminiError(err))
	}

	summary := strings.TrimSpace(result.Text())
	if err := g.observe(ctx, summary, length, duration); err != nil {
		return "", err
	}
	return summary, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.WithStatus(err, apiErr.Code)
	}
	return err
}
