// Package lhdn implements the client side of the LHDN MyInvois integration:
// the access-token lifecycle (acquisition, tiered caching, safe expiry) and
// the outbound document submission pipeline.
package lhdn

import "time"

// SafetyBuffer is subtracted from a token's absolute expiry to compute its
// safe expiry. A token inside the buffer is treated as expired so it is never
// used for a request that could outlive it.
const SafetyBuffer = 5 * time.Minute

// Scope requested on the client-credentials grant.
const TokenScope = "InvoicingAPI"

// Timeout clamp bounds for authority requests.
const (
	MinTimeout = 30 * time.Second
	MaxTimeout = 300 * time.Second
)

// Config is the resolved integration configuration for one operation. It is
// immutable once resolved; settings changes take effect on the next
// resolution.
type Config struct {
	Environment  string
	BaseURL      string
	ClientID     string
	ClientSecret string

	Timeout       time.Duration
	RetryEnabled  bool
	MaxRetries    int // maximum total attempts
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	RateLimit RateLimit
}

// RateLimit bounds outbound traffic toward the authority.
type RateLimit struct {
	SubmissionRequests int           // requests per minute ceiling
	MinInterval        time.Duration // minimum gap between consecutive requests
}

// AccessToken is an acquired bearer token with its computed expiry windows.
// Consumers receive the token string by value; the struct is never shared by
// mutable reference.
type AccessToken struct {
	Token         string
	TokenType     string
	ExpiresIn     int64
	Scope         string
	IssuedAt      time.Time
	ExpiresAt     time.Time // IssuedAt + ExpiresIn
	SafeExpiresAt time.Time // ExpiresAt - SafetyBuffer
}

// ValidAt reports whether the token is still safely usable at the given time.
func (t AccessToken) ValidAt(now time.Time) bool {
	return t.Token != "" && now.Before(t.SafeExpiresAt)
}

// Document is one prepared document in a submission payload.
type Document struct {
	Format       string `json:"format"`
	Document     string `json:"document"` // base64-encoded body
	DocumentHash string `json:"documentHash"`
	CodeNumber   string `json:"codeNumber"`
}

// AcceptedDocument is a document the authority accepted for processing.
type AcceptedDocument struct {
	UUID              string `json:"uuid"`
	InvoiceCodeNumber string `json:"invoiceCodeNumber"`
}

// RejectedDocument is a document the authority rejected at submission time.
type RejectedDocument struct {
	InvoiceCodeNumber string `json:"invoiceCodeNumber"`
	Code              string `json:"code"`
	Message           string `json:"message"`
}

// SubmissionResult is the interpreted outcome of a submission call.
type SubmissionResult struct {
	SubmissionUID string
	Accepted      []AcceptedDocument
	Rejected      []RejectedDocument
	Attempts      int
}

// Document processing states reported by the submission status endpoint.
const (
	OverallInProgress     = "in progress"
	OverallValid          = "valid"
	OverallPartiallyValid = "partially valid"
	OverallInvalid        = "invalid"
	OverallCancelled      = "cancelled"
)

// SubmissionStatus is the authority's view of a previously accepted
// submission.
type SubmissionStatus struct {
	SubmissionUID   string            `json:"submissionUid"`
	OverallStatus   string            `json:"overallStatus"`
	DocumentSummary []DocumentSummary `json:"documentSummary"`
}

// DocumentSummary is the per-document status within a submission.
type DocumentSummary struct {
	UUID              string `json:"uuid"`
	InvoiceCodeNumber string `json:"invoiceCodeNumber"`
	Status            string `json:"status"`
}
