package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	// Token lifecycle
	TokenAcquisitionsTotal   *prometheus.CounterVec
	TokenAcquisitionDuration prometheus.Histogram
	TokenCacheHitsTotal      *prometheus.CounterVec
	TokenCacheMissesTotal    prometheus.Counter
	TokenInvalidationsTotal  prometheus.Counter
	TokenAuditFailuresTotal  prometheus.Counter

	// Submission pipeline
	SubmissionsTotal        *prometheus.CounterVec
	SubmissionDuration      *prometheus.HistogramVec
	SubmissionAttempts      prometheus.Histogram
	StatusTransitionsTotal  *prometheus.CounterVec
	IllegalTransitionsTotal *prometheus.CounterVec
	StatusPollsTotal        *prometheus.CounterVec
	SubmissionsByStatus     *prometheus.GaugeVec

	// HTTP surface
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// If enabled=true, returns Prometheus-based Metrics.
// If enabled=false, returns NoopMetrics (zero overhead).
// Uses sync.Once to ensure Prometheus metrics are only registered once.
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		TokenAcquisitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lhdn_token_acquisitions_total",
				Help: "Total number of token exchanges against the authority",
			},
			[]string{"result"}, // success, error
		),
		TokenAcquisitionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lhdn_token_acquisition_duration_seconds",
				Help:    "Time taken to exchange client credentials for a token",
				Buckets: prometheus.DefBuckets,
			},
		),
		TokenCacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lhdn_token_cache_hits_total",
				Help: "Token cache hits by tier",
			},
			[]string{"tier"}, // memory, file
		),
		TokenCacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "lhdn_token_cache_misses_total",
				Help: "Token reads that fell through every cache tier",
			},
		),
		TokenInvalidationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "lhdn_token_invalidations_total",
				Help: "Times the operational token cache was cleared",
			},
		),
		TokenAuditFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "lhdn_token_audit_write_failures_total",
				Help: "Best-effort token audit inserts that failed",
			},
		),

		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lhdn_submissions_total",
				Help: "Document submissions by outcome",
			},
			[]string{"outcome"}, // submitted, rejected, failed
		),
		SubmissionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lhdn_submission_duration_seconds",
				Help:    "End-to-end duration of a submission call including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		SubmissionAttempts: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lhdn_submission_attempts",
				Help:    "Attempts performed per submission",
				Buckets: []float64{1, 2, 3, 4, 5, 10},
			},
		),
		StatusTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lhdn_status_transitions_total",
				Help: "Applied submission status transitions",
			},
			[]string{"from", "to"},
		),
		IllegalTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lhdn_illegal_transitions_total",
				Help: "Rejected out-of-order status transitions",
			},
			[]string{"from", "to"},
		),
		StatusPollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lhdn_status_polls_total",
				Help: "Authority status poll results",
			},
			[]string{"result"},
		),
		SubmissionsByStatus: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lhdn_submissions_by_status",
				Help: "Current number of submissions per status",
			},
			[]string{"status"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Database query errors by operation",
			},
			[]string{"operation"},
		),
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func (m *Metrics) RecordTokenAcquisition(success bool, duration time.Duration) {
	m.TokenAcquisitionsTotal.WithLabelValues(result(success)).Inc()
	if success {
		m.TokenAcquisitionDuration.Observe(duration.Seconds())
	}
}

func (m *Metrics) RecordTokenCacheHit(tier string) {
	m.TokenCacheHitsTotal.WithLabelValues(tier).Inc()
}

func (m *Metrics) RecordTokenCacheMiss() {
	m.TokenCacheMissesTotal.Inc()
}

func (m *Metrics) RecordTokenInvalidation() {
	m.TokenInvalidationsTotal.Inc()
}

func (m *Metrics) RecordTokenAuditWriteFailure() {
	m.TokenAuditFailuresTotal.Inc()
}

func (m *Metrics) RecordSubmission(outcome string, duration time.Duration) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
	m.SubmissionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) RecordSubmissionAttempts(attempts int) {
	m.SubmissionAttempts.Observe(float64(attempts))
}

func (m *Metrics) RecordStatusTransition(from, to string) {
	m.StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordIllegalTransition(from, to string) {
	m.IllegalTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordStatusPoll(pollResult string) {
	m.StatusPollsTotal.WithLabelValues(pollResult).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) IncHTTPInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) DecHTTPInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

func (m *Metrics) SetSubmissionsCount(status string, count int) {
	m.SubmissionsByStatus.WithLabelValues(status).Set(float64(count))
}

func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}

// StatusLabel converts an HTTP status code to its metrics label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
