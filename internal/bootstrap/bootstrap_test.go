package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-insight/internal/config"
	"book-insight/internal/infra/ner"
	"book-insight/internal/infra/summarizer"
)

func testConfig(summarizerProvider, nerProvider string) *config.Config {
	cfg := config.Default()
	cfg.Summarization.Provider = summarizerProvider
	cfg.NER.Provider = nerProvider
	cfg.APIKeys = config.APIKeys{OpenAI: "sk-test", Anthropic: "sk-ant-test", Gemini: "gemini-test"}
	return cfg
}

func TestNew_Noop(t *testing.T) {
	c, err := New(context.Background(), testConfig(config.ProviderNoop, config.ProviderNoop))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.Service)
	assert.Nil(t, c.SummarizerBreaker)
	assert.Nil(t, c.RecognizerBreaker)
	assert.Nil(t, c.Readiness)

	out, err := c.Service.Extract(context.Background(), "John went to Paris.")
	require.NoError(t, err)
	assert.Equal(t, "John went to Paris.", out.Summary)
	assert.Empty(t, out.Characters)
}

func TestNew_GRPCRecognizer(t *testing.T) {
	cfg := testConfig(config.ProviderClaude, config.ProviderGRPC)
	cfg.NER.GRPCAddress = "localhost:1"

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)

	require.NotNil(t, c.SummarizerBreaker)
	assert.Equal(t, "claude-api", c.SummarizerBreaker.Name())
	require.NotNil(t, c.RecognizerBreaker)
	assert.Equal(t, "ner", c.RecognizerBreaker.Name())
	require.NotNil(t, c.Readiness)
	assert.False(t, c.Readiness.Ready())

	assert.NoError(t, c.Close())
}

func TestNewSummarizer(t *testing.T) {
	tests := []struct {
		provider  string
		cacheSize int
		want      any
	}{
		{provider: config.ProviderOpenAI, cacheSize: 0, want: &summarizer.OpenAI{}},
		{provider: config.ProviderClaude, cacheSize: 0, want: &summarizer.Claude{}},
		{provider: config.ProviderOpenAI, cacheSize: 16, want: &summarizer.Cached{}},
		{provider: config.ProviderClaude, cacheSize: 16, want: &summarizer.Cached{}},
		{provider: config.ProviderNoop, cacheSize: 16, want: &summarizer.NoOp{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s cache=%d", tt.provider, tt.cacheSize), func(t *testing.T) {
			cfg := testConfig(tt.provider, config.ProviderNoop)
			cfg.Summarization.CacheSize = tt.cacheSize

			s, err := NewSummarizer(context.Background(), cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestNewSummarizer_CacheKeepsBreaker(t *testing.T) {
	s, err := NewSummarizer(context.Background(), testConfig(config.ProviderOpenAI, config.ProviderNoop))
	require.NoError(t, err)

	owner, ok := s.(breakerOwner)
	require.True(t, ok)
	require.NotNil(t, owner.CircuitBreaker())
	assert.Equal(t, "openai-api", owner.CircuitBreaker().Name())
}

func TestNewSummarizer_PassesModelAndRate(t *testing.T) {
	cfg := testConfig(config.ProviderOpenAI, config.ProviderNoop)
	cfg.Summarization.RequestsPerSecond = -1

	_, err := NewSummarizer(context.Background(), cfg)
	assert.Error(t, err, "invalid rate limit reaches the adapter validation")
}

func TestNewSummarizer_Unknown(t *testing.T) {
	_, err := NewSummarizer(context.Background(), testConfig("bart", config.ProviderNoop))
	assert.ErrorContains(t, err, `unknown summarization provider "bart"`)
}

func TestNewRecognizer(t *testing.T) {
	tests := []struct {
		provider string
		want     any
	}{
		{provider: config.ProviderGRPC, want: &ner.GRPC{}},
		{provider: config.ProviderClaude, want: &ner.LLM{}},
		{provider: config.ProviderOpenAI, want: &ner.LLM{}},
		{provider: config.ProviderNoop, want: &ner.NoOp{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			r, err := NewRecognizer(testConfig(config.ProviderNoop, tt.provider))
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
			if g, ok := r.(*ner.GRPC); ok {
				_ = g.Close()
			}
		})
	}
}

func TestNewRecognizer_Errors(t *testing.T) {
	cfg := testConfig(config.ProviderNoop, config.ProviderGRPC)
	cfg.NER.GRPCAddress = ""
	_, err := NewRecognizer(cfg)
	assert.Error(t, err)

	_, err = NewRecognizer(testConfig(config.ProviderNoop, "spacy"))
	assert.ErrorContains(t, err, `unknown ner provider "spacy"`)
}

func TestLLMConfig_UsesLLMTimeout(t *testing.T) {
	n := config.Default().NER
	n.Model = "gpt-4o-mini"

	lc := llmConfig(n)
	assert.Equal(t, "gpt-4o-mini", lc.Model)
	assert.Equal(t, 5*time.Minute, lc.Timeout)
	assert.NotEqual(t, n.Timeout, lc.Timeout, "the sidecar timeout must not bound whole-book listing")

	n.LLMTimeout = 90 * time.Second
	assert.Equal(t, 90*time.Second, llmConfig(n).Timeout)
}
