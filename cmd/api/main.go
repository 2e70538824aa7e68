package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"smartvision/internal/config"
	hhttp "smartvision/internal/handler/http"
	"smartvision/internal/handler/http/middleware"
	"smartvision/internal/infra/adapter/persistence/guarded"
	pgRepo "smartvision/internal/infra/adapter/persistence/postgres"
	sqliteRepo "smartvision/internal/infra/adapter/persistence/sqlite"
	"smartvision/internal/infra/db"
	"smartvision/internal/infra/pdftext"
	"smartvision/internal/infra/storage"
	"smartvision/internal/infra/summarizer"
	"smartvision/internal/observability/logging"
	"smartvision/internal/observability/metrics"
	"smartvision/internal/observability/tracing"
	"smartvision/internal/repository"
	docUC "smartvision/internal/usecase/document"
	sumUC "smartvision/internal/usecase/summarize"
	envconfig "smartvision/pkg/config"

	_ "smartvision/docs" // swagger docs
)

// @title           SmartVision PDF Reader API
// @version         1.0
// @description     PDF のアップロード・閲覧と抽出型要約を提供する REST API
// @description     要約は文のスコアリングによる決定的なアルゴリズムで生成されます。

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

// rateLimitCleanupInterval is how often idle limiter buckets are evicted.
const rateLimitCleanupInterval = time.Minute

func main() {
	logger := initLogger()
	if err := config.LoadDotEnv(); err != nil {
		logger.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAppConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := initTracing(logger, cfg.Version)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, cfg, database)
	runServer(logger, cfg, components)
}

// initLogger initializes the structured logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initTracing installs the tracer provider. A broken tracing configuration is
// logged and tracing stays disabled; the API keeps serving.
func initTracing(logger *slog.Logger, version string) func(context.Context) error {
	shutdown, err := tracing.InitProvider(tracing.LoadConfig("smartvision-api", version))
	if err != nil {
		logger.Warn("tracing disabled", slog.Any("error", err))
		return func(context.Context) error { return nil }
	}
	return shutdown
}

// initDatabase opens the configured database and runs migrations.
func initDatabase(logger *slog.Logger, cfg *config.AppConfig) *sql.DB {
	dsn := cfg.DatabaseURL
	if cfg.DatabaseDriver == config.DriverSQLite {
		dsn = cfg.SQLiteDSN()
	}

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseDriver, dsn)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("driver", cfg.DatabaseDriver),
			slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database, cfg.DatabaseDriver); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, database, cfg.DatabaseDriver); err != nil {
		logger.Warn("failed to register database stats collector", slog.Any("error", err))
	}
	return database
}

// newDocumentRepo returns the driver-specific repository behind the circuit breaker.
func newDocumentRepo(driver string, database *sql.DB) repository.DocumentRepository {
	var inner repository.DocumentRepository
	if driver == config.DriverSQLite {
		inner = sqliteRepo.NewDocumentRepo(database)
	} else {
		inner = pgRepo.NewDocumentRepo(database)
	}
	return guarded.NewDocumentRepo(inner)
}

// newSummarizer builds the extractive summarizer, applying SUMMARIZER_CONFIG_FILE when set.
func newSummarizer(logger *slog.Logger, path string) *summarizer.Extractive {
	sumCfg, err := config.LoadSummarizerConfig(path)
	if err != nil {
		logger.Error("failed to load summarizer configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	ext, err := summarizer.NewExtractive(sumCfg)
	if err != nil {
		logger.Error("invalid summarizer configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("summarizer configured",
		slog.Float64("summary_ratio", sumCfg.SummaryRatio),
		slog.Int("min_sentences", sumCfg.MinSentences),
		slog.Int("max_sentences", sumCfg.MaxSentences),
		slog.Bool("custom_config", path != ""))
	return ext
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *middleware.IPRateLimiter
}

// setupServer wires the services and returns the HTTP handler.
func setupServer(logger *slog.Logger, cfg *config.AppConfig, database *sql.DB) *ServerComponents {
	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		logger.Error("failed to prepare upload directory",
			slog.String("dir", cfg.UploadDir),
			slog.Any("error", err))
		os.Exit(1)
	}

	docSvc := &docUC.Service{
		Repo:           newDocumentRepo(cfg.DatabaseDriver, database),
		Files:          files,
		Extractor:      pdftext.New(),
		MaxUploadBytes: cfg.UploadMaxBytes,
		Logger:         logger,
	}
	sumSvc := &sumUC.Service{
		Summarizer:  newSummarizer(logger, cfg.SummarizerConfigFile),
		Documents:   docSvc,
		Metrics:     summarizer.NewPrometheusMetrics(),
		Logger:      logger,
		Concurrency: cfg.SummarizeConcurrency,
	}

	// Load trusted proxy configuration for IP extraction
	proxyConfig, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if proxyConfig.Enabled {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyConfig.AllowedCIDRs)))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	rateLimitConfig := envconfig.LoadRateLimitConfig()
	var limiter *middleware.IPRateLimiter
	if rateLimitConfig.Enabled {
		limiter = middleware.NewIPRateLimiter(rateLimitConfig, middleware.NewIPExtractor(proxyConfig))
		logger.Info("summarize rate limiting initialized",
			slog.Float64("rate", rateLimitConfig.Rate),
			slog.Int("burst", rateLimitConfig.Burst),
			slog.Int("max_clients", rateLimitConfig.MaxClients))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	corsConfig := middleware.LoadCORSConfig(logger)
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	cspConfig := envconfig.LoadCSPConfig()
	if !cspConfig.Enabled {
		logger.Warn("CSP headers are DISABLED")
	} else if cspConfig.ReportOnly {
		logger.Info("CSP headers in report-only mode")
	}

	metrics.SetBuildInfo(cfg.Version, cfg.DatabaseDriver)

	handler := hhttp.NewRouter(hhttp.RouterConfig{
		Logger:         logger,
		DB:             database,
		Version:        cfg.Version,
		Documents:      docSvc,
		Summaries:      sumSvc,
		UploadDir:      files.Dir(),
		PublicDir:      publicDir(logger, cfg.PublicDir),
		UploadMaxBytes: cfg.UploadMaxBytes,
		JSONMaxBytes:   cfg.JSONMaxBytes,
		SummaryTimeout: envconfig.GetEnvDuration("SUMMARY_TIMEOUT", 30*time.Second),
		CORS:           corsConfig,
		CSP:            hhttp.SecurityPolicies(cspConfig),
		RateLimiter:    limiter,
	})

	return &ServerComponents{Handler: handler, RateLimiter: limiter}
}

// publicDir returns dir when it exists; the SPA is optional.
func publicDir(logger *slog.Logger, dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Info("front end directory not found, SPA serving disabled", slog.String("dir", dir))
		return ""
	}
	return dir
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.AppConfig, components *ServerComponents) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.RateLimiter != nil {
		go components.RateLimiter.RunCleanup(ctx, rateLimitCleanupInterval)
		logger.Info("rate limit cleanup started", slog.Duration("interval", rateLimitCleanupInterval))
	}

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version),
			slog.String("db_driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// リクエスト完了後にバックグラウンド処理を止める
	cancel()
	logger.Info("server stopped")
}
