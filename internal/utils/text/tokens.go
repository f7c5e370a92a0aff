package text

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// TokenCounter counts model tokens with a tiktoken encoding.
// The encoding is loaded on first use; if it cannot be loaded the counter
// falls back to counting whitespace-separated words.
type TokenCounter struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewTokenCounter creates a counter for the named encoding (DefaultEncoding if empty).
func NewTokenCounter(encoding string) *TokenCounter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &TokenCounter{encoding: encoding}
}

// Count returns the number of tokens in s.
func (c *TokenCounter) Count(s string) int {
	c.once.Do(c.load)
	if c.enc == nil {
		return len(strings.Fields(s))
	}
	return len(c.enc.Encode(s, nil, nil))
}

// Exact reports whether counts come from the tiktoken encoding rather than the word fallback.
func (c *TokenCounter) Exact() bool {
	c.once.Do(c.load)
	return c.enc != nil
}

func (c *TokenCounter) load() {
	enc, err := tiktoken.GetEncoding(c.encoding)
	if err != nil {
		slog.Warn("tiktoken encoding unavailable, counting words instead",
			slog.String("encoding", c.encoding),
			slog.Any("error", err))
		return
	}
	c.enc = enc
}
