// Package entity defines the core domain entities for book extraction.
// It contains the characters, occurrence spans and summarization results produced
// for a single request, along with the domain-specific errors.
package entity

// LabelPerson is the recognizer label that marks an entity as a person.
const LabelPerson = "PERSON"

// FallbackSummary replaces the summary of a chunk whose summarization failed.
const FallbackSummary = "[summary unavailable]"

// Entity is a single span returned by an entity recognizer.
// Start and End are character (rune) offsets into the recognized text, end-exclusive.
type Entity struct {
	Label string
	Text  string
	Start int
	End   int
}

// IsPerson reports whether the entity is labeled as a person.
func (e Entity) IsPerson() bool {
	return e.Label == LabelPerson
}

// Occurrence is one span where a character name appears in the source text.
type Occurrence struct {
	Start int
	End   int
}

// Character is a named person found in the book together with every place it occurs.
// Occurrences keep the order in which the recognizer reported them.
type Character struct {
	Name        string
	Occurrences []Occurrence
}

// Length holds the summary length bounds passed to a summarizer.
type Length struct {
	Max int
	Min int
}

// ChunkSummary is the outcome of summarizing a single chunk.
// Exactly one of Text or Err is meaningful: when Err is set the chunk failed.
type ChunkSummary struct {
	Index int
	Text  string
	Err   error
}

// Failed reports whether summarization of the chunk failed.
func (c ChunkSummary) Failed() bool {
	return c.Err != nil
}

// Resolve returns the chunk's summary, or FallbackSummary if it failed.
func (c ChunkSummary) Resolve() string {
	if c.Failed() {
		return FallbackSummary
	}
	return c.Text
}

// ExtractionStats describes how a request was processed.
type ExtractionStats struct {
	Chunks     int
	Fallbacks  int
	Characters int
}

// Extraction is the combined result for one book text.
type Extraction struct {
	Summary    string
	Characters []Character
	Stats      ExtractionStats
}
