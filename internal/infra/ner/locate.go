package ner

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"book-insight/internal/domain/entity"
)

// Locate finds every whole-word occurrence of names in text and returns
// them as PERSON entities ordered by start offset.
//
// Longer names are matched first and matches never overlap, so "John" is
// not reported again inside an earlier "John Smith" match.
func Locate(text string, names []string) []entity.Entity {
	haystack := []rune(text)
	covered := make([]bool, len(haystack))

	var found []entity.Entity
	for _, name := range normalizeNames(names) {
		needle := []rune(name)
		n := len(needle)
		for i := 0; i+n <= len(haystack); i++ {
			if !slices.Equal(haystack[i:i+n], needle) {
				continue
			}
			if !isBoundary(haystack, i-1) || !isBoundary(haystack, i+n) {
				continue
			}
			if slices.Contains(covered[i:i+n], true) {
				continue
			}
			for j := i; j < i+n; j++ {
				covered[j] = true
			}
			found = append(found, entity.Entity{
				Label: entity.LabelPerson,
				Text:  name,
				Start: i,
				End:   i + n,
			})
			i += n - 1
		}
	}

	slices.SortFunc(found, func(a, b entity.Entity) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return found
}

// normalizeNames trims, dedupes and orders names longest first.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	slices.SortStableFunc(out, func(a, b string) int {
		if c := cmp.Compare(len([]rune(b)), len([]rune(a))); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}

func isBoundary(rs []rune, i int) bool {
	if i < 0 || i >= len(rs) {
		return true
	}
	r := rs[i]
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
