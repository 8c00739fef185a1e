package lhdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/retry"
)

const (
	submitEndpoint = "/api/v1.0/documents/submissions"
	statusEndpoint = "/api/v1.0/documentsubmissions/"
)

// TokenSource supplies bearer tokens for authority requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	InvalidateToken(ctx context.Context)
}

// Client sends prepared documents to the authority's submission endpoint and
// polls submission status. Transient failures (rate limiting, timeouts, 5xx)
// are retried under the configured backoff policy; business rejections are
// not.
type Client struct {
	provider   *ConfigProvider
	tokens     TokenSource
	httpClient *http.Client
	metrics    core.Recorder

	// Outbound throttle state; requests toward the authority keep at least
	// RateLimit.MinInterval between them.
	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient(
	provider *ConfigProvider,
	tokens TokenSource,
	httpClient *http.Client,
	metrics core.Recorder,
) *Client {
	return &Client{
		provider:   provider,
		tokens:     tokens,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

type submitRequest struct {
	Documents []Document `json:"documents"`
}

type submitResponse struct {
	SubmissionUID     string             `json:"submissionUid"`
	AcceptedDocuments []AcceptedDocument `json:"acceptedDocuments"`
	RejectedDocuments []struct {
		InvoiceCodeNumber string        `json:"invoiceCodeNumber"`
		Error             errorEnvelope `json:"error"`
	} `json:"rejectedDocuments"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Target  string `json:"target"`
	} `json:"details"`
}

type errorResponse struct {
	Error errorEnvelope `json:"error"`
}

// Submit sends the documents to the authority. On success the result carries
// the authority-assigned submission UID and per-document UUIDs. Attempts is
// always populated, including on failure.
func (c *Client) Submit(ctx context.Context, docs []Document) (*SubmissionResult, error) {
	cfg, err := c.provider.ActiveConfig()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(submitRequest{Documents: docs})
	if err != nil {
		return nil, fmt.Errorf("lhdn: encode submission payload: %w", err)
	}

	var result *SubmissionResult
	attempts, err := c.policy(cfg).Do(ctx, IsTransient,
		func(ctx context.Context, attempt int) error {
			var attemptErr error
			result, attemptErr = c.submitOnce(ctx, cfg, body)
			return attemptErr
		})
	if err != nil {
		return &SubmissionResult{Attempts: attempts}, err
	}

	result.Attempts = attempts
	return result, nil
}

// GetSubmission polls the authority for the current state of an accepted
// submission.
func (c *Client) GetSubmission(ctx context.Context, submissionUID string) (*SubmissionStatus, error) {
	cfg, err := c.provider.ActiveConfig()
	if err != nil {
		return nil, err
	}

	var status *SubmissionStatus
	_, err = c.policy(cfg).Do(ctx, IsTransient,
		func(ctx context.Context, attempt int) error {
			var attemptErr error
			status, attemptErr = c.getSubmissionOnce(ctx, cfg, submissionUID)
			return attemptErr
		})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// policy builds the shared backoff policy from config. MaxRetries is the
// maximum total number of attempts; a disabled retry flag collapses it to a
// single attempt.
func (c *Client) policy(cfg *Config) retry.Policy {
	maxAttempts := cfg.MaxRetries
	if !cfg.RetryEnabled || maxAttempts < 1 {
		maxAttempts = 1
	}
	return retry.Policy{
		MaxAttempts:  maxAttempts,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     cfg.MaxRetryDelay,
		Jitter:       0.2,
	}
}

func (c *Client) submitOnce(ctx context.Context, cfg *Config, body []byte) (*SubmissionResult, error) {
	if err := c.throttle(ctx, cfg.RateLimit.MinInterval); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		cfg.BaseURL+submitEndpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("lhdn: build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failures and timeouts are transient; the submission stays
		// Pending and remains eligible for retry.
		return nil, fmt.Errorf("lhdn: submission request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted:
		var sr submitResponse
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
			return nil, fmt.Errorf("lhdn: decode submission response: %w", err)
		}
		result := &SubmissionResult{
			SubmissionUID: sr.SubmissionUID,
			Accepted:      sr.AcceptedDocuments,
		}
		for _, rej := range sr.RejectedDocuments {
			result.Rejected = append(result.Rejected, RejectedDocument{
				InvoiceCodeNumber: rej.InvoiceCodeNumber,
				Code:              rej.Error.Code,
				Message:           rej.Error.Message,
			})
		}
		return result, nil

	default:
		return nil, c.interpretError(ctx, resp)
	}
}

func (c *Client) getSubmissionOnce(
	ctx context.Context,
	cfg *Config,
	submissionUID string,
) (*SubmissionStatus, error) {
	if err := c.throttle(ctx, cfg.RateLimit.MinInterval); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		cfg.BaseURL+statusEndpoint+submissionUID,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("lhdn: build status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lhdn: status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.interpretError(ctx, resp)
	}

	var status SubmissionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("lhdn: decode status response: %w", err)
	}
	return &status, nil
}

// interpretError maps a non-success authority response onto the error
// taxonomy.
func (c *Client) interpretError(ctx context.Context, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{RetryAfter: parseRetryAfter(resp)}

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// The token was refused; clear the cache so the next attempt
		// re-acquires instead of replaying a stale token.
		c.tokens.InvalidateToken(ctx)
		return &AuthError{StatusCode: resp.StatusCode, Message: string(body)}

	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)

	default:
		var er errorResponse
		_ = json.Unmarshal(body, &er)
		message := er.Error.Message
		if message == "" {
			message = string(body)
		}
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Code:       er.Error.Code,
			Message:    message,
		}
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// throttle blocks until at least minInterval has passed since the previous
// authority request.
func (c *Client) throttle(ctx context.Context, minInterval time.Duration) error {
	if minInterval <= 0 {
		return nil
	}

	c.mu.Lock()
	wait := minInterval - time.Since(c.lastRequest)
	if wait < 0 {
		wait = 0
	}
	c.lastRequest = time.Now().Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
