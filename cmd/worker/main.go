package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"smartvision/internal/config"
	"smartvision/internal/handler/http/respond"
	"smartvision/internal/infra/adapter/persistence/guarded"
	pgRepo "smartvision/internal/infra/adapter/persistence/postgres"
	sqliteRepo "smartvision/internal/infra/adapter/persistence/sqlite"
	"smartvision/internal/infra/db"
	"smartvision/internal/infra/storage"
	workerPkg "smartvision/internal/infra/worker"
	"smartvision/internal/observability/logging"
	"smartvision/internal/observability/metrics"
	"smartvision/internal/repository"
	"smartvision/internal/resilience/retry"
	"smartvision/internal/usecase/janitor"
)

// waitForMigrations blocks until the API has created the documents table.
func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM documents LIMIT 1"
	attempt := 0
	err := retry.WithBackoff(context.Background(), retry.DBConnectConfig(), func() error {
		attempt++
		if _, err := database.Exec(probe); err != nil {
			logger.Info("waiting for migrations", slog.Int("attempt", attempt))
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		logger.Error("migrations did not complete in time", slog.Any("error", err))
		os.Exit(1)
	}
}

func main() {
	logger := initLogger()
	if err := config.LoadDotEnv(); err != nil {
		logger.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	appConfig, err := config.LoadAppConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger, appConfig)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("grace_period", workerConfig.GracePeriod),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	files, err := storage.NewLocal(appConfig.UploadDir)
	if err != nil {
		logger.Error("failed to open upload directory",
			slog.String("dir", appConfig.UploadDir),
			slog.Any("error", err))
		os.Exit(1)
	}

	svc := &janitor.Service{
		Repo:        newDocumentRepo(appConfig.DatabaseDriver, database),
		Files:       files,
		GracePeriod: workerConfig.GracePeriod,
		Logger:      logger,
	}

	// Start health check server (/health, /health/ready, /metrics)
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger, nil)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes the structured logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger, cfg *config.AppConfig) *sql.DB {
	dsn := cfg.DatabaseURL
	if cfg.DatabaseDriver == config.DriverSQLite {
		dsn = cfg.SQLiteDSN()
	}
	database, err := db.Open(context.Background(), cfg.DatabaseDriver, dsn)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)

	if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, database, cfg.DatabaseDriver); err != nil {
		logger.Warn("failed to register database stats collector", slog.Any("error", err))
	}
	return database
}

func newDocumentRepo(driver string, database *sql.DB) repository.DocumentRepository {
	if driver == config.DriverSQLite {
		return guarded.NewDocumentRepo(sqliteRepo.NewDocumentRepo(database))
	}
	return guarded.NewDocumentRepo(pgRepo.NewDocumentRepo(database))
}

// startCronWorker schedules the janitor and blocks until ctx is cancelled.
func startCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	svc *janitor.Service,
	cfg *workerPkg.JanitorConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	// 実行中のジョブが終わるまで次を始めない
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		runJanitorJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStart {
		go runJanitorJob(ctx, logger, svc, cfg, metrics)
	}

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// 実行中のジョブの完了を待つ
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

// runJanitorJob executes a single janitor pass with timeout and error handling.
func runJanitorJob(ctx context.Context, logger *slog.Logger, svc *janitor.Service, cfg *workerPkg.JanitorConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordRun("started")
	logger.Info("janitor started")

	// タイムアウト（設定から取得）
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	report, err := svc.Run(runCtx)
	metrics.RecordDuration(time.Since(startTime).Seconds())
	if err != nil {
		// 機密情報をマスクしてログ出力
		logger.Error("janitor failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordRun("failure")
		return
	}

	metrics.RecordRun("success")
	metrics.RecordOrphansRemoved(len(report.OrphansRemoved))
	metrics.SetMissingFiles(len(report.MissingFiles))
	metrics.RecordLastSuccess()

	logger.Info("janitor completed",
		slog.Int("files", report.Files),
		slog.Int("documents", report.Documents),
		slog.Int("orphans_removed", len(report.OrphansRemoved)),
		slog.Int("orphans_pending", report.OrphansPending),
		slog.Int("missing_files", len(report.MissingFiles)),
		slog.Int("remove_errors", report.RemoveErrors),
		slog.Duration("duration", time.Since(startTime)))
}
