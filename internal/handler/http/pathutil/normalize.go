// Package pathutil normalizes request paths for use as metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched is the label used for every path the server does not route.
const Unmatched = "/:unmatched"

// knownPaths are the routes served by the API.
var knownPaths = map[string]struct{}{
	"/extract_information": {},
	"/health":              {},
	"/ready":               {},
	"/live":                {},
	"/metrics":             {},
}

// repeatedSlashes collapses "//" sequences before lookup.
var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// NormalizePath maps a request path to a bounded set of metric labels.
// Known routes are returned as-is and anything else, including scanner
// noise such as /wp-login.php, becomes Unmatched so that label cardinality
// stays constant.
//
// Query parameters and trailing slashes are ignored:
//
//	NormalizePath("/health")                  // "/health"
//	NormalizePath("/extract_information/")    // "/extract_information"
//	NormalizePath("/metrics?name[]=up")       // "/metrics"
//	NormalizePath("/admin/../etc/passwd")     // "/:unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	path = repeatedSlashes.ReplaceAllString(path, "/")
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}
	return Unmatched
}

// ExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func ExpectedCardinality() int {
	return len(knownPaths) + 1
}
