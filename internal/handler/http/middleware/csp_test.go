package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"smartvision/pkg/security/csp"
)

func serveCSP(cfg CSPConfig, path string) http.Header {
	handler := CSP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header()
}

func TestCSP_SelectsPolicyByPath(t *testing.T) {
	cfg := CSPConfig{
		Enabled: true,
		Default: csp.New().DefaultSrc(csp.Self),
		PathPolicies: map[string]*csp.Policy{
			"/api/":        csp.New().DefaultSrc(csp.None),
			"/api/pdf/all": csp.New().DefaultSrc("https://list.example"),
			"/swagger/":    csp.New().ScriptSrc(csp.Self, csp.UnsafeInline),
			"/empty/":      csp.New(),
			"/nil-policy/": nil,
		},
	}

	tests := []struct {
		path string
		want string
	}{
		{"/", "default-src 'self'"},
		{"/viewer/3", "default-src 'self'"},
		{"/api/pdf/summary/1", "default-src 'none'"},
		{"/api/pdf/all", "default-src https://list.example"},
		{"/swagger/index.html", "script-src 'self' 'unsafe-inline'"},
		{"/empty/x", "default-src 'self'"},
		{"/nil-policy/x", "default-src 'self'"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h := serveCSP(cfg, tt.path)
			assert.Equal(t, tt.want, h.Get("Content-Security-Policy"))
			assert.Empty(t, h.Get("Content-Security-Policy-Report-Only"))
		})
	}
}

func TestCSP_ReportOnly(t *testing.T) {
	shared := csp.New().DefaultSrc(csp.Self)
	cfg := CSPConfig{
		Enabled:      true,
		ReportOnly:   true,
		Default:      shared,
		PathPolicies: map[string]*csp.Policy{"/api/": csp.APIPolicy()},
	}

	h := serveCSP(cfg, "/")
	assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy-Report-Only"))
	assert.Empty(t, h.Get("Content-Security-Policy"))

	h = serveCSP(cfg, "/api/pdf/all")
	assert.Contains(t, h.Get("Content-Security-Policy-Report-Only"), "default-src 'none'")

	// 設定に渡したポリシーは変更しない
	assert.Equal(t, "Content-Security-Policy", shared.HeaderName())
}

func TestCSP_Disabled(t *testing.T) {
	h := serveCSP(CSPConfig{Enabled: false, Default: csp.APIPolicy()}, "/api/pdf/all")
	assert.Empty(t, h.Get("Content-Security-Policy"))
}

func TestCSP_NoDefault(t *testing.T) {
	cfg := CSPConfig{
		Enabled:      true,
		PathPolicies: map[string]*csp.Policy{"/api/": csp.APIPolicy()},
	}
	assert.Empty(t, serveCSP(cfg, "/").Get("Content-Security-Policy"))
}
