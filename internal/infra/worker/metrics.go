package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics groups the janitor worker's Prometheus metrics.
//
//   - worker_config_load_timestamp, worker_config_validation_errors_total,
//     worker_config_fallbacks_total, worker_config_fallback_active: configuration loading
//   - worker_janitor_runs_total{status}: runs by status (started, success, failure)
//   - worker_janitor_duration_seconds: run duration
//   - worker_janitor_orphans_removed_total: unreferenced files deleted
//   - worker_janitor_missing_files: documents whose file is missing, as of the last run
//   - worker_janitor_last_success_timestamp: completion time of the last successful run
type WorkerMetrics struct {
	ConfigLoadTimestamp   prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge

	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	OrphansRemovedTotal  prometheus.Counter
	MissingFiles         prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the metrics on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigLoadTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_config_load_timestamp",
			Help: "Unix timestamp of last worker configuration load",
		}),
		ValidationErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_config_validation_errors_total",
			Help: "Total number of worker configuration validation errors",
		}, []string{"field"}),
		FallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_config_fallbacks_total",
			Help: "Total number of worker configuration fallback operations",
		}, []string{"field"}),
		FallbackActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_config_fallback_active",
			Help: "1 if any worker configuration fallback is active, 0 otherwise",
		}),

		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_janitor_runs_total",
			Help: "Total number of janitor runs by status (started/success/failure)",
		}, []string{"status"}),
		RunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_janitor_duration_seconds",
			Help:    "Duration of janitor runs in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 300},
		}),
		OrphansRemovedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_janitor_orphans_removed_total",
			Help: "Total number of stored files removed because no document references them",
		}),
		MissingFiles: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_janitor_missing_files",
			Help: "Number of documents whose stored file was missing in the last run",
		}),
		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_janitor_last_success_timestamp",
			Help: "Unix timestamp of the last successful janitor run",
		}),
	}
}

// RecordLoadTimestamp records the current time as the configuration load time.
func (m *WorkerMetrics) RecordLoadTimestamp() { m.ConfigLoadTimestamp.SetToCurrentTime() }

// RecordValidationError counts an invalid configuration value.
func (m *WorkerMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback counts a default applied in place of an invalid value.
func (m *WorkerMetrics) RecordFallback(field string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive sets worker_config_fallback_active to 1 or 0.
func (m *WorkerMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}

// RecordRun counts a run by status ("started", "success" or "failure").
func (m *WorkerMetrics) RecordRun(status string) { m.RunsTotal.WithLabelValues(status).Inc() }

// RecordDuration observes a run duration in seconds.
func (m *WorkerMetrics) RecordDuration(seconds float64) { m.RunDurationSeconds.Observe(seconds) }

// RecordOrphansRemoved adds to the removed file count.
func (m *WorkerMetrics) RecordOrphansRemoved(n int) { m.OrphansRemovedTotal.Add(float64(n)) }

// SetMissingFiles records how many documents lack their file.
func (m *WorkerMetrics) SetMissingFiles(n int) { m.MissingFiles.Set(float64(n)) }

// RecordLastSuccess stamps the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() { m.LastSuccessTimestamp.SetToCurrentTime() }
