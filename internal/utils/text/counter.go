// Package text provides utilities for text processing and analysis.
// It covers character counting, sentence segmentation, sentence-aligned chunking
// and token accounting shared by the summarization pipeline and the AI adapters.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Every length in the pipeline (chunk budgets, entity offsets) is measured in runes
// so multi-byte text is budgeted the same way as ASCII.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("Zoë")       // returns 3
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}
