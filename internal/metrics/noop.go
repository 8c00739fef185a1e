package metrics

import (
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
)

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NoopMetrics is a no-op Recorder used when metrics are disabled.
type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (n *NoopMetrics) RecordTokenAcquisition(success bool, duration time.Duration)         {}
func (n *NoopMetrics) RecordTokenCacheHit(tier string)                                     {}
func (n *NoopMetrics) RecordTokenCacheMiss()                                               {}
func (n *NoopMetrics) RecordTokenInvalidation()                                            {}
func (n *NoopMetrics) RecordTokenAuditWriteFailure()                                       {}
func (n *NoopMetrics) RecordSubmission(outcome string, duration time.Duration)             {}
func (n *NoopMetrics) RecordSubmissionAttempts(attempts int)                               {}
func (n *NoopMetrics) RecordStatusTransition(from, to string)                              {}
func (n *NoopMetrics) RecordIllegalTransition(from, to string)                             {}
func (n *NoopMetrics) RecordStatusPoll(result string)                                      {}
func (n *NoopMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {}
func (n *NoopMetrics) IncHTTPInFlight()                                                    {}
func (n *NoopMetrics) DecHTTPInFlight()                                                    {}
func (n *NoopMetrics) SetSubmissionsCount(status string, count int)                        {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                           {}
