package lhdn

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

var (
	// ErrConfigNotFound indicates no active integration configuration exists.
	ErrConfigNotFound = errors.New("lhdn: no active integration configuration")

	// ErrConfigInvalid indicates the active configuration cannot be used
	// (e.g. no base URL resolvable for the configured environment).
	ErrConfigInvalid = errors.New("lhdn: integration configuration invalid")

	// ErrUpstreamUnavailable indicates a 5xx from the authority. Transient.
	ErrUpstreamUnavailable = errors.New("lhdn: authority temporarily unavailable")
)

// AuthError indicates the token exchange failed or the authority refused the
// bearer token. Never retried automatically; the store is defensively
// invalidated.
type AuthError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lhdn: authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("lhdn: authentication failed: status %d: %s", e.StatusCode, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RateLimitedError indicates the authority signalled throttling (HTTP 429).
// Transient; callers back off per the configured policy.
type RateLimitedError struct {
	RetryAfter time.Duration // zero when the authority gave no hint
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("lhdn: rate limited, retry after %s", e.RetryAfter)
	}
	return "lhdn: rate limited"
}

// UpstreamError indicates the authority rejected the request for
// business/validation reasons (4xx). Never retried; surfaced to the caller
// with the authority's own code and message.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	if detail := ValidationMessage(e.Code); detail != "" {
		return fmt.Sprintf("lhdn: %s: %s (%s)", e.Code, detail, e.Message)
	}
	return fmt.Sprintf("lhdn: authority rejected request: status %d code %s: %s",
		e.StatusCode, e.Code, e.Message)
}

// validationMessages maps LHDN document validation codes to human-readable
// messages shown to end users.
var validationMessages = map[string]string{
	"CF366": "Issuer TIN does not match the TIN registered with LHDN",
	"CF367": "Issuer registration number does not match the registered value",
	"CF368": "Buyer TIN is not valid",
	"CF369": "Currency code is not recognised",
	"CF370": "Document date is outside the allowed submission window",
	"CF371": "Tax type code is not valid for this document type",
	"CF372": "Classification code is not valid",
	"CF373": "Duplicate invoice code number for this supplier",
}

// ValidationMessage returns the human-readable message for an LHDN validation
// code, or empty string if the code is unknown.
func ValidationMessage(code string) string {
	return validationMessages[code]
}

// IsTransient reports whether an error is a transient failure class
// (RateLimited, Timeout, upstream 5xx) eligible for retry under the backoff
// policy. Everything else propagates immediately.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var rateLimited *RateLimitedError
	if errors.As(err, &rateLimited) {
		return true
	}

	if errors.Is(err, ErrUpstreamUnavailable) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
