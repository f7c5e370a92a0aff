package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"book-insight/internal/domain/entity"
	"book-insight/internal/observability/logging"
	"book-insight/internal/observability/tracing"
	"book-insight/internal/utils/text"
)

// Summarizer condenses one chunk of text within the given length bounds.
type Summarizer interface {
	Summarize(ctx context.Context, text string, length entity.Length) (string, error)
}

// Recognizer finds named entities in a text.
// Entity offsets are rune offsets into the text, end-exclusive.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]entity.Entity, error)
}

// Options controls chunking and summarization.
type Options struct {
	// Length bounds every chunk summary.
	Length entity.Length

	// ChunkSize is the chunk budget in runes.
	ChunkSize int

	// Concurrency is the number of chunks summarized at once. Values below 1 mean 1.
	Concurrency int

	// ChunkTimeout bounds a single summarizer call. Zero means no bound.
	ChunkTimeout time.Duration
}

// Service runs the extraction pipeline. It is safe for concurrent use when
// the injected summarizer and recognizer are.
type Service struct {
	summarizer Summarizer
	recognizer Recognizer
	opts       Options
}

// NewService creates a Service from the model handles built at startup.
func NewService(summarizer Summarizer, recognizer Recognizer, opts Options) *Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Service{
		summarizer: summarizer,
		recognizer: recognizer,
		opts:       opts,
	}
}

// Extract summarizes bookText and collects its characters.
//
// Summarization and character extraction run concurrently. Chunk failures are
// absorbed into FallbackSummary and never fail the request; a recognizer
// failure does, wrapped in ErrExtractionFailed. When ctx ends first the
// result is discarded and ErrInterrupted wraps ctx.Err(). Blank text returns
// entity.ErrInvalidRequest without calling any model.
func (s *Service) Extract(ctx context.Context, bookText string) (*entity.Extraction, error) {
	if err := entity.ValidateBookText(bookText); err != nil {
		extractionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "book.Extract")
	defer span.End()

	logger := logging.WithRequestID(ctx, slog.Default())
	start := time.Now()

	var (
		chunks     []entity.ChunkSummary
		characters []entity.Character
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chunks = s.summarizeAll(gctx, bookText)
		return nil
	})
	g.Go(func() error {
		var err error
		characters, err = s.ExtractCharacters(gctx, bookText)
		return err
	})

	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		extractionsTotal.WithLabelValues("interrupted").Inc()
		span.RecordError(ctxErr)
		span.SetStatus(codes.Error, "extraction interrupted")
		logger.Warn("book extraction interrupted",
			slog.Int("text_length", text.CountRunes(bookText)),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", ctxErr))
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
	}
	if err != nil {
		extractionsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "character extraction failed")
		logger.Error("book extraction failed",
			slog.Int("text_length", text.CountRunes(bookText)),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return nil, err
	}

	out := &entity.Extraction{
		Summary:    assemble(chunks),
		Characters: characters,
		Stats: entity.ExtractionStats{
			Chunks:     len(chunks),
			Fallbacks:  countFailed(chunks),
			Characters: len(characters),
		},
	}

	duration := time.Since(start)
	extractionsTotal.WithLabelValues("success").Inc()
	extractionDuration.Observe(duration.Seconds())
	chunksPerBook.Observe(float64(out.Stats.Chunks))
	charactersPerBook.Observe(float64(out.Stats.Characters))

	span.SetAttributes(
		attribute.Int("book.chunks", out.Stats.Chunks),
		attribute.Int("book.fallbacks", out.Stats.Fallbacks),
		attribute.Int("book.characters", out.Stats.Characters),
	)

	logger.Info("book extraction completed",
		slog.Int("text_length", text.CountRunes(bookText)),
		slog.Int("chunks", out.Stats.Chunks),
		slog.Int("fallbacks", out.Stats.Fallbacks),
		slog.Int("characters", out.Stats.Characters),
		slog.Duration("duration", duration))

	return out, nil
}

// ExtractCharacters runs the recognizer once over the whole text and groups
// PERSON entities by exact name in first-seen order. Spans outside the text
// are dropped with a warning.
func (s *Service) ExtractCharacters(ctx context.Context, bookText string) ([]entity.Character, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "book.ExtractCharacters")
	defer span.End()

	entities, err := s.recognizer.Recognize(ctx, bookText)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	logger := logging.WithRequestID(ctx, slog.Default())
	runes := []rune(bookText)

	characters := make([]entity.Character, 0)
	index := make(map[string]int)
	for _, e := range entities {
		if !e.IsPerson() {
			continue
		}
		if err := entity.ValidateSpan(e.Start, e.End, len(runes)); err != nil {
			droppedSpansTotal.Inc()
			logger.Warn("dropping entity span",
				slog.String("name", e.Text),
				slog.Any("error", err))
			continue
		}

		name := e.Text
		if name == "" {
			name = string(runes[e.Start:e.End])
		}

		i, ok := index[name]
		if !ok {
			i = len(characters)
			index[name] = i
			characters = append(characters, entity.Character{Name: name})
		}
		characters[i].Occurrences = append(characters[i].Occurrences,
			entity.Occurrence{Start: e.Start, End: e.End})
	}

	span.SetAttributes(attribute.Int("book.characters", len(characters)))
	return characters, nil
}

// summarizeAll chunks the text and summarizes every chunk. The result keeps
// chunk order regardless of concurrency. Once ctx is done the remaining
// chunks are marked failed without calling the summarizer, and a single
// warning reports how many were skipped.
func (s *Service) summarizeAll(ctx context.Context, bookText string) []entity.ChunkSummary {
	ctx, span := tracing.GetTracer().Start(ctx, "book.Summarize")
	defer span.End()

	chunks := text.Chunk(bookText, s.opts.ChunkSize)
	results := make([]entity.ChunkSummary, len(chunks))
	span.SetAttributes(attribute.Int("book.chunks", len(chunks)))

	var skipped atomic.Int64
	run := func(i int, chunk string) {
		if err := ctx.Err(); err != nil {
			results[i] = entity.ChunkSummary{Index: i, Err: err}
			skipped.Add(1)
			return
		}
		results[i] = s.summarizeChunk(ctx, i, chunk)
	}

	if s.opts.Concurrency == 1 {
		for i, chunk := range chunks {
			run(i, chunk)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for i, chunk := range chunks {
			g.Go(func() error {
				run(i, chunk)
				return nil
			})
		}
		_ = g.Wait() // run never returns an error
	}

	if n := skipped.Load(); n > 0 {
		chunkSummariesTotal.WithLabelValues("skipped").Add(float64(n))
		span.SetAttributes(attribute.Int64("book.skipped_chunks", n))
		logging.WithRequestID(ctx, slog.Default()).Warn("summarization stopped, remaining chunks use fallback",
			slog.Int64("skipped", n),
			slog.Int("chunks", len(chunks)),
			slog.Any("error", ctx.Err()))
	}

	return results
}

// summarizeChunk summarizes one chunk. Failures are returned in the result,
// logged and counted, never propagated.
func (s *Service) summarizeChunk(ctx context.Context, idx int, chunk string) entity.ChunkSummary {
	if s.opts.ChunkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ChunkTimeout)
		defer cancel()
	}

	out, err := s.callSummarizer(ctx, chunk)
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = ErrEmptySummary
		}
	}

	if err != nil {
		chunkSummariesTotal.WithLabelValues("fallback").Inc()
		logger := logging.WithRequestID(ctx, slog.Default())
		logger.Warn("chunk summarization failed, using fallback",
			slog.Int("chunk", idx),
			slog.Int("chunk_length", text.CountRunes(chunk)),
			slog.Bool("canceled", errors.Is(err, context.Canceled)),
			slog.Any("error", err))
		return entity.ChunkSummary{Index: idx, Err: err}
	}

	chunkSummariesTotal.WithLabelValues("success").Inc()
	return entity.ChunkSummary{Index: idx, Text: out}
}

func (s *Service) callSummarizer(ctx context.Context, chunk string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSummarizerPanic, r)
		}
	}()
	return s.summarizer.Summarize(ctx, chunk, s.opts.Length)
}

// assemble joins chunk summaries with a single space, substituting
// FallbackSummary for failed chunks.
func assemble(chunks []entity.ChunkSummary) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Resolve()
	}
	return strings.Join(parts, " ")
}

func countFailed(chunks []entity.ChunkSummary) int {
	n := 0
	for _, c := range chunks {
		if c.Failed() {
			n++
		}
	}
	return n
}
