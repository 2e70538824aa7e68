package worker

import (
	"fmt"
	"log/slog"
	"time"

	"smartvision/pkg/config"
)

// JanitorConfig controls the storage janitor worker.
//
// Environment variables:
//   - JANITOR_CRON_SCHEDULE: five-field cron expression (default "*/30 * * * *")
//   - JANITOR_TIMEZONE: IANA timezone for the schedule (default "UTC")
//   - JANITOR_GRACE_PERIOD: minimum age of an unreferenced file before removal (default 1h)
//   - JANITOR_RUN_TIMEOUT: deadline for one run (default 5m)
//   - JANITOR_RUN_ON_START: run once immediately after start (default true)
//   - WORKER_HEALTH_PORT: port for /health and /metrics (default 9091)
type JanitorConfig struct {
	CronSchedule string
	Timezone     string
	// GracePeriod keeps files from in-flight uploads, which are stored before
	// their row is written.
	GracePeriod time.Duration
	RunTimeout  time.Duration
	RunOnStart  bool
	HealthPort  int
}

// DefaultConfig returns the janitor defaults.
func DefaultConfig() JanitorConfig {
	return JanitorConfig{
		CronSchedule: "*/30 * * * *", // every 30 minutes
		Timezone:     "UTC",
		GracePeriod:  1 * time.Hour,
		RunTimeout:   5 * time.Minute,
		RunOnStart:   true,
		HealthPort:   9091,
	}
}

// Validate reports every invalid field together.
func (c *JanitorConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDurationRange(c.GracePeriod, time.Minute, 7*24*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("grace period: %w", err))
	}
	if err := config.ValidateDurationRange(c.RunTimeout, time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// Location returns the schedule timezone, UTC when it cannot be loaded.
func (c *JanitorConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads the janitor configuration. It is fail-open: an invalid
// value is replaced by its default, logged, and counted in metrics. The returned
// configuration is always valid.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *JanitorConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	note := func(field string, applied bool, warning string) {
		if !applied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadWithFallback("JANITOR_CRON_SCHEDULE", cfg.CronSchedule, config.ParseString, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	note("cron_schedule", schedule.FallbackApplied, schedule.Warning)

	tz := config.LoadWithFallback("JANITOR_TIMEZONE", cfg.Timezone, config.ParseString, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("timezone", tz.FallbackApplied, tz.Warning)

	grace := config.LoadWithFallback("JANITOR_GRACE_PERIOD", cfg.GracePeriod, config.ParseDuration, func(d time.Duration) error {
		return config.ValidateDurationRange(d, time.Minute, 7*24*time.Hour)
	})
	cfg.GracePeriod = grace.Value
	note("grace_period", grace.FallbackApplied, grace.Warning)

	timeout := config.LoadWithFallback("JANITOR_RUN_TIMEOUT", cfg.RunTimeout, config.ParseDuration, func(d time.Duration) error {
		return config.ValidateDurationRange(d, time.Second, time.Hour)
	})
	cfg.RunTimeout = timeout.Value
	note("run_timeout", timeout.FallbackApplied, timeout.Warning)

	onStart := config.LoadWithFallback("JANITOR_RUN_ON_START", cfg.RunOnStart, config.ParseBool, nil)
	cfg.RunOnStart = onStart.Value
	note("run_on_start", onStart.FallbackApplied, onStart.Warning)

	port := config.LoadWithFallback("WORKER_HEALTH_PORT", cfg.HealthPort, config.ParseInt, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	note("health_port", port.FallbackApplied, port.Warning)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg
}
