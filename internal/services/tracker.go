package services

import (
	"errors"
	"log"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"

	"github.com/google/uuid"
)

// ErrIllegalTransition indicates a status change that is not reachable from
// the record's current state. The record is left unchanged.
var ErrIllegalTransition = errors.New("services: illegal status transition")

// SubmissionStore is the persistence surface the tracker needs.
type SubmissionStore interface {
	CreateSubmission(sub *models.Submission) error
	GetSubmissionByID(id string) (*models.Submission, error)
	UpdateSubmission(sub *models.Submission) error
	ListSubmissions(status models.Status, limit, offset int) ([]models.Submission, error)
	ListSubmissionsByStatusOlderThan(
		status models.Status,
		cutoff time.Time,
		limit int,
	) ([]models.Submission, error)
}

// Tracker owns SubmissionRecords and enforces the status state machine.
// Records are created Pending before the first network call and only move
// forward through legal transitions; they are never deleted.
type Tracker struct {
	store   SubmissionStore
	metrics core.Recorder
}

func NewTracker(store SubmissionStore, metrics core.Recorder) *Tracker {
	return &Tracker{store: store, metrics: metrics}
}

// Create persists a new Pending record for a submission attempt.
func (t *Tracker) Create(invoiceCodeNumber, fileName string) (*models.Submission, error) {
	now := time.Now()
	sub := &models.Submission{
		ID:                uuid.New().String(),
		InvoiceCodeNumber: invoiceCodeNumber,
		FileName:          fileName,
		Status:            models.StatusPending,
		StatusChangedAt:   now,
	}
	if err := t.store.CreateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Transition moves a record to target if the state machine allows it and
// persists the change. An out-of-order transition is rejected, logged as a
// data-integrity warning, and leaves the record untouched.
func (t *Tracker) Transition(sub *models.Submission, target models.Status) error {
	if !sub.Status.CanTransitionTo(target) {
		log.Printf(
			"Data integrity warning: illegal transition %s -> %s for submission %s (invoice %s)",
			sub.Status, target, sub.ID, sub.InvoiceCodeNumber,
		)
		t.metrics.RecordIllegalTransition(string(sub.Status), string(target))
		return ErrIllegalTransition
	}

	from := sub.Status
	sub.Status = target
	sub.StatusChangedAt = time.Now()
	if err := t.store.UpdateSubmission(sub); err != nil {
		// Roll the in-memory copy back so callers see the persisted state.
		sub.Status = from
		return err
	}

	t.metrics.RecordStatusTransition(string(from), string(target))
	return nil
}

// Get returns a submission record by its ID.
func (t *Tracker) Get(id string) (*models.Submission, error) {
	return t.store.GetSubmissionByID(id)
}

// List returns submission records, optionally filtered by status.
func (t *Tracker) List(status models.Status, limit, offset int) ([]models.Submission, error) {
	return t.store.ListSubmissions(status, limit, offset)
}
