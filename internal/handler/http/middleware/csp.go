package middleware

import (
	"net/http"
	"sort"
	"strings"

	"smartvision/pkg/security/csp"
)

// CSPConfig selects a Content-Security-Policy per request path.
type CSPConfig struct {
	Enabled bool
	// ReportOnly overrides every policy to report-only mode.
	ReportOnly bool
	// Default applies when no PathPolicies prefix matches. nil sends no header.
	Default *csp.Policy
	// PathPolicies maps a path prefix to its policy. The longest prefix wins.
	PathPolicies map[string]*csp.Policy
}

type compiledPolicy struct {
	prefix string
	header string
	value  string
}

func compile(prefix string, p *csp.Policy, reportOnly bool) (compiledPolicy, bool) {
	if p == nil {
		return compiledPolicy{}, false
	}
	if reportOnly {
		p = p.Clone().ReportOnly(true)
	}
	value := p.Build()
	if value == "" {
		return compiledPolicy{}, false
	}
	return compiledPolicy{prefix: prefix, header: p.HeaderName(), value: value}, true
}

// CSP sets the Content-Security-Policy header chosen for the request path.
// Policies are rendered once here, not per request.
func CSP(cfg CSPConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	var paths []compiledPolicy
	for prefix, p := range cfg.PathPolicies {
		if c, ok := compile(prefix, p, cfg.ReportOnly); ok {
			paths = append(paths, c)
		}
	}
	// 長いプレフィックスを優先
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i].prefix) != len(paths[j].prefix) {
			return len(paths[i].prefix) > len(paths[j].prefix)
		}
		return paths[i].prefix < paths[j].prefix
	})
	def, hasDefault := compile("", cfg.Default, cfg.ReportOnly)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range paths {
				if strings.HasPrefix(r.URL.Path, p.prefix) {
					w.Header().Set(p.header, p.value)
					next.ServeHTTP(w, r)
					return
				}
			}
			if hasDefault {
				w.Header().Set(def.header, def.value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
