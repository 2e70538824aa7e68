package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"smartvision/internal/handler/http/document"
	"smartvision/internal/handler/http/middleware"
	"smartvision/internal/handler/http/requestid"
	"smartvision/internal/handler/http/summary"
	"smartvision/internal/observability/tracing"
	docUC "smartvision/internal/usecase/document"
	sumUC "smartvision/internal/usecase/summarize"
	envconfig "smartvision/pkg/config"
	"smartvision/pkg/security/csp"
)

const bodyCapSlack int64 = 2 << 20

// RouterConfig carries everything NewRouter needs.
type RouterConfig struct {
	Logger  *slog.Logger
	DB      *sql.DB
	Version string

	Documents *docUC.Service
	Summaries *sumUC.Service

	UploadDir string
	// PublicDir holds the built front end. Empty disables SPA serving.
	PublicDir string

	UploadMaxBytes int64
	JSONMaxBytes   int64
	// SummaryTimeout bounds GET /api/pdf/summary/{id}. Zero disables it.
	SummaryTimeout time.Duration

	CORS middleware.CORSConfig
	CSP  middleware.CSPConfig
	// RateLimiter guards the summarize routes. nil disables limiting.
	RateLimiter *middleware.IPRateLimiter
}

// NewRouter registers every route and wraps the mux with the middleware chain.
//
// Middleware order: Request ID → Tracing → Recovery → Logging → Metrics → CORS → CSP → URI Limit → Body Limit
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// ヘルスチェック
	mux.Handle("GET /health", &HealthHandler{DB: cfg.DB, UploadDir: cfg.UploadDir, Version: cfg.Version, Logger: logger})
	mux.Handle("GET /ready", &ReadyHandler{DB: cfg.DB})
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads", UploadsHandler(cfg.UploadDir)))

	document.Register(mux, cfg.Documents, cfg.UploadMaxBytes)

	opts := summary.Options{
		MaxBodyBytes:    cfg.JSONMaxBytes,
		DocumentTimeout: Timeout(cfg.SummaryTimeout),
	}
	if cfg.RateLimiter != nil {
		opts.RateLimit = cfg.RateLimiter.Middleware
	}
	summary.Register(mux, cfg.Summaries, opts)

	if cfg.PublicDir != "" {
		mux.Handle("/", SPAHandler(cfg.PublicDir))
	}

	// サーバー全体の上限。ルートごとの上限が先に効く
	maxBody := max(cfg.UploadMaxBytes, docUC.DefaultMaxUploadBytes, cfg.JSONMaxBytes, summary.DefaultMaxBodyBytes) + bodyCapSlack

	return Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		Recover(logger),
		Logging(logger),
		MetricsMiddleware,
		middleware.CORS(cfg.CORS),
		middleware.CSP(cfg.CSP),
		LimitURILength(MaxURIPathLength),
		LimitRequestBody(maxBody),
	)
}

// SecurityPolicies maps each surface of the server to its CSP preset.
func SecurityPolicies(cfg envconfig.CSPConfig) middleware.CSPConfig {
	return middleware.CSPConfig{
		Enabled:    cfg.Enabled,
		ReportOnly: cfg.ReportOnly,
		Default:    csp.AppPolicy(),
		PathPolicies: map[string]*csp.Policy{
			"/api/":     csp.APIPolicy(),
			"/health":   csp.APIPolicy(),
			"/ready":    csp.APIPolicy(),
			"/live":     csp.APIPolicy(),
			"/metrics":  csp.APIPolicy(),
			"/uploads/": csp.DocumentPolicy(),
			"/swagger/": csp.SwaggerUIPolicy(),
		},
	}
}
