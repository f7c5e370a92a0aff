package book

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the extraction pipeline
var (
	// chunkSummariesTotal counts chunk outcomes
	chunkSummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_chunk_summaries_total",
			Help: "Total number of chunk summarization attempts",
		},
		[]string{"status"}, // status: success|fallback|skipped
	)

	// extractionsTotal counts requests by outcome
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_extractions_total",
			Help: "Total number of book extraction requests",
		},
		[]string{"status"}, // status: success|invalid|error|interrupted
	)

	extractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "book_extraction_duration_seconds",
			Help:    "End-to-end extraction duration in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	chunksPerBook = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "book_chunks_per_request",
			Help:    "Number of chunks a book was split into",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
		},
	)

	charactersPerBook = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "book_characters_per_request",
			Help:    "Number of distinct characters found in a book",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	// droppedSpansTotal counts recognizer spans outside the text bounds
	droppedSpansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_dropped_entity_spans_total",
			Help: "Total number of recognizer spans dropped for invalid offsets",
		},
	)
)
