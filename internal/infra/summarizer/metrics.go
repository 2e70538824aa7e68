package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder records summarization metrics.
// Implementations must be safe for concurrent use.
//
// Example usage:
//
//	recorder := summarizer.NewPrometheusMetrics()
//	res := extractive.Summarize(text)
//	recorder.RecordOutcome(res.Outcome)
//	if res.HasMetrics() {
//	    recorder.RecordCompression(res.CompressionRate)
//	}
type MetricsRecorder interface {
	// RecordOutcome counts a summarization by the tier that produced it.
	RecordOutcome(outcome Outcome)

	// RecordRejected counts input rejected before summarization ("missing", "too_short").
	RecordRejected(reason string)

	// RecordCompression records the compression rate (percent) of a scored summary.
	RecordCompression(rate int)

	// RecordSentences records the number of sentences found in the input.
	RecordSentences(count int)

	// RecordDuration records the time spent summarizing.
	RecordDuration(duration time.Duration)
}

// PrometheusMetrics implements MetricsRecorder using Prometheus collectors.
type PrometheusMetrics struct {
	outcomes    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	compression prometheus.Histogram
	sentences   prometheus.Histogram
	duration    prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateCounterVec gets an existing counter vector or registers a new one.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// getOrCreateHistogram gets an existing histogram or registers a new one.
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
// It is a singleton so repeated construction (tests, multiple services) does not
// attempt duplicate registration.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			outcomes: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summaries_total",
				Help: "Total number of summarizations by outcome (summarized, unchanged, fallback, failed)",
			}, []string{"outcome"}),
			rejected: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summaries_rejected_total",
				Help: "Total number of summarization requests rejected by input validation",
			}, []string{"reason"}),
			compression: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summary_compression_rate_percent",
				Help:    "Distribution of summary compression rates in percent",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			}),
			sentences: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summary_input_sentences",
				Help:    "Number of sentences found in summarized text",
				Buckets: []float64{1, 3, 5, 10, 20, 50, 100, 200, 500},
			}),
			duration: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summarization_duration_seconds",
				Help:    "Time taken to summarize a text",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordOutcome implements MetricsRecorder.
func (p *PrometheusMetrics) RecordOutcome(outcome Outcome) {
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

// RecordRejected implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRejected(reason string) {
	p.rejected.WithLabelValues(reason).Inc()
}

// RecordCompression implements MetricsRecorder.
func (p *PrometheusMetrics) RecordCompression(rate int) {
	p.compression.Observe(float64(rate))
}

// RecordSentences implements MetricsRecorder.
func (p *PrometheusMetrics) RecordSentences(count int) {
	p.sentences.Observe(float64(count))
}

// RecordDuration implements MetricsRecorder.
func (p *PrometheusMetrics) RecordDuration(duration time.Duration) {
	p.duration.Observe(duration.Seconds())
}

// NoOpMetrics discards everything. Useful for the CLI and tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOutcome(Outcome) {}
func (NoOpMetrics) RecordRejected(string) {}
func (NoOpMetrics) RecordCompression(int) {}
func (NoOpMetrics) RecordSentences(int) {}
func (NoOpMetrics) RecordDuration(time.Duration) {}
