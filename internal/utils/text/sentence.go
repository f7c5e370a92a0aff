package text

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Sentences returns a lazy sequence of the sentences in s.
//
// A sentence ends immediately after '.', '!' or '?' when the next character is
// whitespace. The terminal punctuation stays with the sentence and the whitespace
// run separating two sentences is dropped. There is no handling of abbreviations or
// quotes: "Mr. Smith" yields two sentences.
//
// The sequence may be ranged over any number of times. Empty or whitespace-only
// input yields nothing; input without terminal punctuation yields a single sentence.
func Sentences(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := skipSpace(s, 0)
		i := start
		for i < len(s) {
			r, size := utf8.DecodeRuneInString(s[i:])
			i += size
			if !isTerminal(r) || i >= len(s) {
				continue
			}
			next, _ := utf8.DecodeRuneInString(s[i:])
			if !unicode.IsSpace(next) {
				continue
			}
			if !yield(s[start:i]) {
				return
			}
			start = skipSpace(s, i)
			i = start
		}
		if start < len(s) {
			yield(s[start:])
		}
	}
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// skipSpace returns the byte offset of the first non-space rune at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
