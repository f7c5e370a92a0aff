package pathutil

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "extract endpoint", path: "/extract_information", expected: "/extract_information"},
		{name: "extract with trailing slash", path: "/extract_information/", expected: "/extract_information"},
		{name: "extract with query", path: "/extract_information?debug=1", expected: "/extract_information"},
		{name: "health", path: "/health", expected: "/health"},
		{name: "ready", path: "/ready", expected: "/ready"},
		{name: "live", path: "/live", expected: "/live"},
		{name: "metrics", path: "/metrics", expected: "/metrics"},
		{name: "double slashes", path: "//health", expected: "/health"},
		{name: "root", path: "/", expected: Unmatched},
		{name: "empty", path: "", expected: Unmatched},
		{name: "scanner noise", path: "/wp-login.php", expected: Unmatched},
		{name: "nested unknown", path: "/extract_information/123", expected: Unmatched},
		{name: "case differs", path: "/Health", expected: Unmatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.expected {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestNormalizePath_BoundedCardinality(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[NormalizePath("/random/"+string(rune('a'+i%26))+"/"+string(rune('0'+i%10)))] = struct{}{}
	}
	for path := range knownPaths {
		seen[NormalizePath(path)] = struct{}{}
	}

	if len(seen) != ExpectedCardinality() {
		t.Errorf("got %d labels, want %d", len(seen), ExpectedCardinality())
	}
}

func BenchmarkNormalizePath(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NormalizePath("/extract_information?x=1")
	}
}
