package ner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

type claudeLister struct {
	client anthropic.Client
	model  string
	system string
}

// NewClaude creates a recognizer backed by Anthropic's Messages API.
func NewClaude(apiKey string, cfg LLMConfig) (*LLM, error) {
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaudeHaiku4_5)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid claude ner configuration: %w", err)
	}

	schema, err := json.Marshal(personNamesSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode names schema: %w", err)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	lister := &claudeLister{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		system: listNamesInstruction + string(schema),
	}
	cb := circuitbreaker.ClaudeAPIConfig()
	cb.Name = "claude-ner"
	return newLLM("claude", lister, cfg, cb), nil
}

func (c *claudeLister) listNames(ctx context.Context, passage string) ([]string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: c.system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(passage)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			err = retry.WithStatus(err, apiErr.StatusCode)
		}
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return parsePersonNames(sb.String())
}
