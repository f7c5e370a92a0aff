package summarizer

import (
	"fmt"
	"time"

	"book-insight/internal/resilience/retry"
)

// Config holds the settings shared by the API-backed summarizers.
type Config struct {
	// Model is the provider model identifier. Each constructor fills in its
	// own default when empty.
	Model string

	// MaxTokens is the lower bound on the response token budget. The budget
	// grows with max_length when a request asks for longer summaries.
	MaxTokens int

	// Timeout bounds one Summarize call, retries included.
	Timeout time.Duration

	// MaxInputChars truncates oversized chunks before they reach the API.
	MaxInputChars int

	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string

	// Retry configures backoff for transient API failures.
	Retry retry.Config

	// RequestsPerSecond and Burst configure the client-side rate limiter.
	// A zero rate disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns the configuration used by cmd/api unless overridden.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Timeout:           60 * time.Second,
		MaxInputChars:     12000,
		Retry:             retry.AIAPIConfig(),
		RequestsPerSecond: 2,
		Burst:             5,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max input chars must be positive, got %d", c.MaxInputChars)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative")
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c Config) responseTokens(maxLength int) int {
	return max(c.MaxTokens, maxLength*2)
}
