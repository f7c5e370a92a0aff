package ner

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

type openAILister struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a recognizer backed by OpenAI structured outputs.
func NewOpenAI(apiKey string, cfg LLMConfig) (*LLM, error) {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid openai ner configuration: %w", err)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	lister := &openAILister{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
	cb := circuitbreaker.OpenAIAPIConfig()
	cb.Name = "openai-ner"
	return newLLM("openai", lister, cfg, cb), nil
}

func (o *openAILister) listNames(ctx context.Context, passage string) ([]string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: listNamesInstruction + "(see response format)"},
			{Role: openai.ChatMessageRoleUser, Content: passage},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        "person_names",
				Description: "People named in a passage of a book",
				Schema:      personNamesSchema,
				Strict:      true,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			err = retry.WithStatus(err, apiErr.HTTPStatusCode)
		}
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}
	return parsePersonNames(resp.Choices[0].Message.Content)
}
