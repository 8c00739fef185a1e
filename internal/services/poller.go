package services

import (
	"context"
	"log"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/lhdn"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
)

// StatusPoller advances Submitted records as the authority finishes
// validating them. It only ever applies explicit authority decisions; a
// failed poll leaves the record untouched for the next cycle.
type StatusPoller struct {
	tracker *Tracker
	client  AuthorityClient
	metrics core.Recorder
	batch   int
}

func NewStatusPoller(
	tracker *Tracker,
	client AuthorityClient,
	metrics core.Recorder,
	batch int,
) *StatusPoller {
	if batch <= 0 {
		batch = 50
	}
	return &StatusPoller{
		tracker: tracker,
		client:  client,
		metrics: metrics,
		batch:   batch,
	}
}

// PollOnce checks one batch of Submitted records against the authority.
// Returns the number of records whose status advanced.
func (p *StatusPoller) PollOnce(ctx context.Context) (int, error) {
	subs, err := p.tracker.store.ListSubmissionsByStatusOlderThan(
		models.StatusSubmitted,
		time.Now().Add(-10*time.Second),
		p.batch,
	)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for i := range subs {
		sub := &subs[i]
		if sub.SubmissionUID == "" {
			continue
		}

		status, err := p.client.GetSubmission(ctx, sub.SubmissionUID)
		if err != nil {
			p.metrics.RecordStatusPoll("error")
			log.Printf("Status poll failed for submission %s: %v", sub.SubmissionUID, err)
			continue
		}

		target, ok := mapOverallStatus(status.OverallStatus)
		if !ok {
			p.metrics.RecordStatusPoll("pending")
			continue
		}

		if err := p.tracker.Transition(sub, target); err != nil {
			continue
		}
		p.metrics.RecordStatusPoll(string(target))
		advanced++
	}

	return advanced, nil
}

// mapOverallStatus translates the authority's overall status into a record
// state. "in progress" maps to no transition.
func mapOverallStatus(overall string) (models.Status, bool) {
	switch overall {
	case lhdn.OverallValid, lhdn.OverallPartiallyValid:
		return models.StatusValid, true
	case lhdn.OverallInvalid:
		return models.StatusInvalid, true
	case lhdn.OverallCancelled:
		return models.StatusCancelled, true
	default:
		return "", false
	}
}
