package text

import (
	"iter"
	"strings"
)

// Chunk splits s into sentence-aligned chunks of at most size runes.
// It is shorthand for ChunkSentences(Sentences(s), size).
func Chunk(s string, size int) []string {
	return ChunkSentences(Sentences(s), size)
}

// ChunkSentences greedily packs consecutive sentences into chunks.
//
// Sentences are joined with a single space and a chunk is closed as soon as the
// next sentence would push it past size runes. Sentences are never split or
// reordered, so a sentence longer than size becomes a chunk of its own that exceeds
// the budget. Every chunk is trimmed of surrounding whitespace. A non-positive size
// puts each sentence in its own chunk.
func ChunkSentences(sentences iter.Seq[string], size int) []string {
	var (
		chunks []string
		acc    strings.Builder
		accLen int
	)

	flush := func() {
		if chunk := strings.TrimSpace(acc.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		acc.Reset()
		accLen = 0
	}

	for sentence := range sentences {
		n := CountRunes(sentence)
		if accLen > 0 && accLen+n > size {
			flush()
		}
		acc.WriteString(sentence)
		acc.WriteByte(' ')
		accLen += n + 1
	}
	flush()

	return chunks
}
