package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// SPATemplate is the label for every path served by the single-page app fallback.
const SPATemplate = "/*"

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/pdf/delete/[^/]+$`), Template: "/api/pdf/delete/:id"},
	{Pattern: regexp.MustCompile(`^/api/pdf/find/[^/]+$`), Template: "/api/pdf/find/:name"},
	{Pattern: regexp.MustCompile(`^/api/pdf/[^/]+/pages/[^/]+/text$`), Template: "/api/pdf/:id/pages/:page/text"},
	{Pattern: regexp.MustCompile(`^/api/pdf/summary/[^/]+$`), Template: "/api/pdf/summary/:id"},
	{Pattern: regexp.MustCompile(`^/uploads/.+$`), Template: "/uploads/:file"},
	{Pattern: regexp.MustCompile(`^/swagger(/.*)?$`), Template: "/swagger/*"},
}

// staticPaths pass through unchanged.
var staticPaths = map[string]bool{
	"/":                  true,
	"/api/pdf/upload":    true,
	"/api/pdf/all":       true,
	"/api/pdf/summarize": true,
	"/health":            true,
	"/ready":             true,
	"/live":              true,
	"/metrics":           true,
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// Paths with IDs or names collapse into their route template, other /api paths
// are kept, and everything else is the SPA fallback.
//
// Examples:
//
//	NormalizePath("/api/pdf/delete/12")          // "/api/pdf/delete/:id"
//	NormalizePath("/api/pdf/find/report")        // "/api/pdf/find/:name"
//	NormalizePath("/api/pdf/3/pages/2/text")     // "/api/pdf/:id/pages/:page/text"
//	NormalizePath("/uploads/1700000000000-x.pdf") // "/uploads/:file"
//	NormalizePath("/api/pdf/all?x=1")            // "/api/pdf/all"
//	NormalizePath("/library/settings")           // "/*"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if staticPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	if strings.HasPrefix(path, "/api/") {
		return "/api/*"
	}
	return SPATemplate
}

// GetExpectedCardinality returns the number of distinct path labels NormalizePath can produce.
func GetExpectedCardinality() int {
	// +2 for "/api/*" and the SPA fallback
	return len(staticPaths) + len(pathPatterns) + 2
}
