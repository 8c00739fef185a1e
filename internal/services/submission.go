package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/lhdn"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
)

// Submission outcomes recorded in metrics.
const (
	outcomeSubmitted = "submitted"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// AuthorityClient is the outbound surface toward LHDN.
type AuthorityClient interface {
	Submit(ctx context.Context, docs []lhdn.Document) (*lhdn.SubmissionResult, error)
	GetSubmission(ctx context.Context, submissionUID string) (*lhdn.SubmissionStatus, error)
}

// SubmitRequest is one document handed in by the portal.
type SubmitRequest struct {
	InvoiceCodeNumber string
	FileName          string
	Format            string
	Document          string // base64-encoded document body
	DocumentHash      string
}

// SubmissionService drives the submit pipeline: create a Pending record,
// call the authority, and move the record through the state machine based on
// the outcome.
type SubmissionService struct {
	tracker *Tracker
	client  AuthorityClient
	metrics core.Recorder
}

func NewSubmissionService(
	tracker *Tracker,
	client AuthorityClient,
	metrics core.Recorder,
) *SubmissionService {
	return &SubmissionService{
		tracker: tracker,
		client:  client,
		metrics: metrics,
	}
}

// Submit sends one document to the authority and records the outcome. The
// returned record reflects the persisted state; err is non-nil whenever the
// authority did not accept the document.
//
// Failure semantics: only an explicit authority decision moves the state
// machine. Transport failures and exhausted retries leave the record Pending
// with error detail, eligible for a later retry.
func (s *SubmissionService) Submit(
	ctx context.Context,
	req SubmitRequest,
) (*models.Submission, error) {
	sub, err := s.tracker.Create(req.InvoiceCodeNumber, req.FileName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.client.Submit(ctx, []lhdn.Document{{
		Format:       req.Format,
		Document:     req.Document,
		DocumentHash: req.DocumentHash,
		CodeNumber:   req.InvoiceCodeNumber,
	}})
	if result != nil {
		sub.Attempts += result.Attempts
	}

	if err != nil {
		return s.recordFailure(sub, err, time.Since(start))
	}

	return s.recordOutcome(sub, result, time.Since(start))
}

// recordFailure persists the failure detail. Business rejections (4xx) are
// terminal; everything else leaves the record Pending.
func (s *SubmissionService) recordFailure(
	sub *models.Submission,
	cause error,
	elapsed time.Duration,
) (*models.Submission, error) {
	var upstream *lhdn.UpstreamError
	if errors.As(cause, &upstream) {
		sub.ErrorCode = upstream.Code
		sub.ErrorMessage = upstream.Message
		if detail := lhdn.ValidationMessage(upstream.Code); detail != "" {
			sub.ErrorMessage = detail
		}
		if err := s.tracker.Transition(sub, models.StatusRejected); err != nil {
			return sub, err
		}
		s.metrics.RecordSubmission(outcomeRejected, elapsed)
		s.metrics.RecordSubmissionAttempts(sub.Attempts)
		return sub, cause
	}

	// Transient or auth failure: stays Pending, retryable by the caller.
	sub.ErrorMessage = cause.Error()
	if err := s.tracker.store.UpdateSubmission(sub); err != nil {
		log.Printf("Failed to persist submission failure detail for %s: %v", sub.ID, err)
	}
	s.metrics.RecordSubmission(outcomeFailed, elapsed)
	s.metrics.RecordSubmissionAttempts(sub.Attempts)
	return sub, cause
}

// recordOutcome applies the authority's accept/reject decision.
func (s *SubmissionService) recordOutcome(
	sub *models.Submission,
	result *lhdn.SubmissionResult,
	elapsed time.Duration,
) (*models.Submission, error) {
	if len(result.Accepted) == 0 {
		// Whole submission rejected document-by-document.
		if len(result.Rejected) > 0 {
			sub.ErrorCode = result.Rejected[0].Code
			sub.ErrorMessage = result.Rejected[0].Message
		}
		if err := s.tracker.Transition(sub, models.StatusRejected); err != nil {
			return sub, err
		}
		s.metrics.RecordSubmission(outcomeRejected, elapsed)
		s.metrics.RecordSubmissionAttempts(sub.Attempts)
		return sub, &lhdn.UpstreamError{Code: sub.ErrorCode, Message: sub.ErrorMessage}
	}

	sub.SubmissionUID = result.SubmissionUID
	sub.DocumentUID = result.Accepted[0].UUID
	sub.ErrorCode = ""
	sub.ErrorMessage = ""
	if err := s.tracker.Transition(sub, models.StatusSubmitted); err != nil {
		return sub, err
	}
	s.metrics.RecordSubmission(outcomeSubmitted, elapsed)
	s.metrics.RecordSubmissionAttempts(sub.Attempts)
	return sub, nil
}
