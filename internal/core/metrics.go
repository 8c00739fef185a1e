package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Token lifecycle
	RecordTokenAcquisition(success bool, duration time.Duration)
	RecordTokenCacheHit(tier string)
	RecordTokenCacheMiss()
	RecordTokenInvalidation()
	RecordTokenAuditWriteFailure()

	// Submission pipeline
	RecordSubmission(outcome string, duration time.Duration)
	RecordSubmissionAttempts(attempts int)
	RecordStatusTransition(from, to string)
	RecordIllegalTransition(from, to string)
	RecordStatusPoll(result string)

	// HTTP surface
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	IncHTTPInFlight()
	DecHTTPInFlight()

	// Gauge setters (for periodic updates)
	SetSubmissionsCount(status string, count int)

	// Database operations
	RecordDatabaseQueryError(operation string)
}

// StatsStore defines the DB operations needed by the stats cache wrapper.
type StatsStore interface {
	CountSubmissionsByStatus(status string) (int64, error)
}
