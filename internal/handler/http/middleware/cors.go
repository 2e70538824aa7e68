// Package middleware provides HTTP middleware for CORS, client IP extraction
// and per-client rate limiting.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"smartvision/pkg/config"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins. "*" allows any origin.
	AllowedOrigins []string
	// AllowedMethods is sent in preflight responses.
	AllowedMethods []string
	// AllowedHeaders is sent in preflight responses.
	AllowedHeaders []string
	// MaxAge is how long preflight results can be cached, in seconds.
	MaxAge int

	Logger *slog.Logger
}

// LoadCORSConfig reads the CORS policy from the environment.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS (default: *)
//   - CORS_ALLOWED_METHODS (default: GET, POST, DELETE, OPTIONS)
//   - CORS_ALLOWED_HEADERS (default: Content-Type, X-Request-ID)
//   - CORS_MAX_AGE (default: 86400)
func LoadCORSConfig(logger *slog.Logger) CORSConfig {
	cfg := CORSConfig{
		AllowedOrigins: config.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowedMethods: config.GetEnvStringList("CORS_ALLOWED_METHODS",
			[]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		AllowedHeaders: config.GetEnvStringList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID"}),
		MaxAge:         config.GetEnvInt("CORS_MAX_AGE", 86400),
		Logger:         logger,
	}
	if cfg.MaxAge < 0 {
		cfg.MaxAge = 0
	}
	return cfg
}

func (c CORSConfig) allowAny() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c CORSConfig) isAllowed(origin string) bool {
	origin = strings.TrimSuffix(origin, "/")
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Behavior:
//   - No Origin header: same-origin request, passed through untouched
//   - Disallowed origin: logged and passed through without CORS headers (the browser blocks it)
//   - Allowed origin: Access-Control-Allow-Origin is set; with a wildcard policy it is "*"
//   - Preflight (OPTIONS) from an allowed origin: answered with 204 without calling next
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	wildcard := cfg.allowAny()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !wildcard && !cfg.isAllowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
