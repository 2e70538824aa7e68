package document

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// uploadsTotal counts upload attempts by result
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_uploads_total",
			Help: "Total number of PDF uploads by result",
		},
		[]string{"result"}, // result: success|rejected|error
	)

	uploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_upload_size_bytes",
			Help:    "Size of accepted PDF uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8), // 16KiB to 256MiB
		},
	)

	deletesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "document_deletes_total",
			Help: "Total number of deleted documents",
		},
	)

	// orphanCleanupFailures counts stored files left behind after a failed save
	orphanCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "document_orphan_cleanup_failures_total",
			Help: "Total number of stored files that could not be removed after a failed save",
		},
	)
)
