package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "book_summary_cache_requests_total",
		Help: "Chunk summary cache lookups by result (hit, miss)",
	},
	[]string{"result"},
)

// Summarizer is the contract shared by every adapter in this package.
type Summarizer interface {
	Summarize(ctx context.Context, chunk string, length entity.Length) (string, error)
}

// Cached remembers successful summaries of identical chunks so that books
// sharing passages, or retried requests, do not pay for the same API call twice.
// Failures are never cached.
type Cached struct {
	inner Summarizer
	scope string
	cache *lru.Cache[string, string]
}

// NewCached wraps inner with an LRU of the given size. scope separates
// entries of different providers or models.
func NewCached(inner Summarizer, scope string, size int) (*Cached, error) {
	if size <= 0 {
		return nil, fmt.Errorf("summary cache size must be greater than zero, got %d", size)
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("init summary cache: %w", err)
	}
	return &Cached{inner: inner, scope: scope, cache: cache}, nil
}

// Summarize returns a cached summary or delegates to the wrapped summarizer.
func (c *Cached) Summarize(ctx context.Context, chunk string, length entity.Length) (string, error) {
	key := c.key(chunk, length)
	if summary, ok := c.cache.Get(key); ok {
		cacheRequests.WithLabelValues("hit").Inc()
		return summary, nil
	}
	cacheRequests.WithLabelValues("miss").Inc()

	summary, err := c.inner.Summarize(ctx, chunk, length)
	if err != nil {
		return "", err
	}
	if summary != "" {
		c.cache.Add(key, summary)
	}
	return summary, nil
}

// Len returns the number of cached summaries.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// CircuitBreaker exposes the wrapped adapter's breaker, or nil.
func (c *Cached) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	if b, ok := c.inner.(interface {
		CircuitBreaker() *circuitbreaker.CircuitBreaker
	}); ok {
		return b.CircuitBreaker()
	}
	return nil
}

func (c *Cached) key(chunk string, length entity.Length) string {
	h := sha256.New()
	h.Write([]byte(c.scope))
	h.Write([]byte{0})
	var bounds [16]byte
	binary.BigEndian.PutUint64(bounds[:8], uint64(length.Max))
	binary.BigEndian.PutUint64(bounds[8:], uint64(length.Min))
	h.Write(bounds[:])
	h.Write([]byte(chunk))
	return hex.EncodeToString(h.Sum(nil))
}
