package text_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"book-insight/internal/utils/text"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "  \n\t ",
			want:  nil,
		},
		{
			name:  "no terminal punctuation",
			input: "It was a dark and stormy night",
			want:  []string{"It was a dark and stormy night"},
		},
		{
			name:  "three sentences",
			input: "John went to Paris. He met Alice. Alice smiled.",
			want:  []string{"John went to Paris.", "He met Alice.", "Alice smiled."},
		},
		{
			name:  "mixed terminals and whitespace runs",
			input: "Stop!  Who goes there?\n\nA friend.",
			want:  []string{"Stop!", "Who goes there?", "A friend."},
		},
		{
			name:  "punctuation not followed by whitespace",
			input: "Version 1.2 shipped. Done.",
			want:  []string{"Version 1.2 shipped.", "Done."},
		},
		{
			name:  "repeated punctuation stays together",
			input: "What?! No...  Yes.",
			want:  []string{"What?!", "No...", "Yes."},
		},
		{
			name:  "abbreviations are split",
			input: "Mr. Smith arrived.",
			want:  []string{"Mr.", "Smith arrived."},
		},
		{
			name:  "leading whitespace dropped, trailing kept",
			input: "   Hello there.  ",
			want:  []string{"Hello there."},
		},
		{
			name:  "unterminated tail",
			input: "First. second part  ",
			want:  []string{"First.", "second part  "},
		},
		{
			name:  "multibyte text",
			input: "Zoë sighed. Ōkami ran!",
			want:  []string{"Zoë sighed.", "Ōkami ran!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(text.Sentences(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sentences(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestSentences_Restartable(t *testing.T) {
	seq := text.Sentences("One. Two. Three.")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs from first (-first +second):\n%s", diff)
	}
}

func TestSentences_EarlyStop(t *testing.T) {
	var got []string
	for s := range text.Sentences("One. Two. Three.") {
		got = append(got, s)
		if len(got) == 2 {
			break
		}
	}

	if diff := cmp.Diff([]string{"One.", "Two."}, got); diff != "" {
		t.Errorf("early stop mismatch (-want +got):\n%s", diff)
	}
}
