// Package metrics provides process-wide Prometheus metrics shared by several
// layers: database query timings, connection pool statistics and build info.
// Domain metrics live next to the code that records them.
package metrics

import (
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DBQueryDuration measures repository calls by operation and result.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation", "status"},
	)

	// BuildInfo is always 1; its labels describe the running binary.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smartvision_build_info",
			Help: "Build information of the running binary",
		},
		[]string{"version", "db_driver"},
	)
)

// RecordDBQuery records the duration of one repository call.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DBQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SetBuildInfo publishes the version and database driver.
func SetBuildInfo(version, driver string) {
	BuildInfo.Reset()
	BuildInfo.WithLabelValues(version, driver).Set(1)
}

// RegisterDBStats exports sql.DBStats for db under the given name.
// Registering the same name twice is not an error.
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB, name string) error {
	err := reg.Register(collectors.NewDBStatsCollector(db, name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
