// Package book provides the extraction use case: it splits a book into
// sentence-aligned chunks, summarizes every chunk, reassembles the partial
// summaries and collects the characters found by an entity recognizer.
package book

import "errors"

// Sentinel errors for book use case operations.
var (
	// ErrExtractionFailed indicates that the entity recognizer could not process the text.
	// It fails the whole request.
	ErrExtractionFailed = errors.New("character extraction failed")

	// ErrInterrupted indicates that the request context ended before the
	// extraction finished. The partial result is discarded.
	ErrInterrupted = errors.New("extraction interrupted")

	// ErrEmptySummary indicates that the summarizer answered with blank output.
	// The chunk is treated as failed.
	ErrEmptySummary = errors.New("summarizer returned empty output")

	// ErrSummarizerPanic indicates that the summarizer panicked while processing a chunk.
	ErrSummarizerPanic = errors.New("summarizer panicked")
)
