package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/lhdn"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSubmittedRecord inserts a record already in Submitted state with a
// status change old enough for the poller to pick up.
func createSubmittedRecord(t *testing.T, s *store.Store, uid string) *models.Submission {
	sub := &models.Submission{
		ID:                uid + "-id",
		InvoiceCodeNumber: "INV-" + uid,
		SubmissionUID:     uid,
		Status:            models.StatusSubmitted,
		StatusChangedAt:   time.Now().Add(-time.Minute),
	}
	require.NoError(t, s.CreateSubmission(sub))
	return sub
}

func TestPollOnce_AdvancesToValid(t *testing.T) {
	tracker, s := newTestTracker(t)
	createSubmittedRecord(t, s, "SUB1")

	client := &fakeAuthorityClient{
		statusResult: &lhdn.SubmissionStatus{
			SubmissionUID: "SUB1",
			OverallStatus: lhdn.OverallValid,
		},
	}
	poller := NewStatusPoller(tracker, client, metrics.NewNoopMetrics(), 10)

	advanced, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	stored, err := s.GetSubmissionByUID("SUB1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusValid, stored.Status)
}

func TestPollOnce_AdvancesToInvalid(t *testing.T) {
	tracker, s := newTestTracker(t)
	createSubmittedRecord(t, s, "SUB1")

	client := &fakeAuthorityClient{
		statusResult: &lhdn.SubmissionStatus{
			SubmissionUID: "SUB1",
			OverallStatus: lhdn.OverallInvalid,
		},
	}
	poller := NewStatusPoller(tracker, client, metrics.NewNoopMetrics(), 10)

	advanced, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	stored, err := s.GetSubmissionByUID("SUB1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInvalid, stored.Status)
}

func TestPollOnce_InProgressLeavesRecord(t *testing.T) {
	tracker, s := newTestTracker(t)
	createSubmittedRecord(t, s, "SUB1")

	client := &fakeAuthorityClient{
		statusResult: &lhdn.SubmissionStatus{
			SubmissionUID: "SUB1",
			OverallStatus: lhdn.OverallInProgress,
		},
	}
	poller := NewStatusPoller(tracker, client, metrics.NewNoopMetrics(), 10)

	advanced, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, advanced)

	stored, err := s.GetSubmissionByUID("SUB1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestPollOnce_PollFailureLeavesRecord(t *testing.T) {
	tracker, s := newTestTracker(t)
	createSubmittedRecord(t, s, "SUB1")

	client := &fakeAuthorityClient{
		statusErr: errors.New("authority unreachable"),
	}
	poller := NewStatusPoller(tracker, client, metrics.NewNoopMetrics(), 10)

	advanced, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, advanced)

	stored, err := s.GetSubmissionByUID("SUB1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestPollOnce_IgnoresNonSubmittedRecords(t *testing.T) {
	tracker, _ := newTestTracker(t)
	_, err := tracker.Create("INV-001", "invoice.xml") // Pending, not polled

	require.NoError(t, err)

	client := &fakeAuthorityClient{
		statusResult: &lhdn.SubmissionStatus{OverallStatus: lhdn.OverallValid},
	}
	poller := NewStatusPoller(tracker, client, metrics.NewNoopMetrics(), 10)

	advanced, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, advanced)
	assert.Equal(t, 0, client.statusCalls)
}

func TestPollOnce_PartiallyValidMapsToValid(t *testing.T) {
	tracker, s := newTestTracker(t)
	createSubmittedRecord(t, s, "SUB1")

	client := &fakeAuthorityClient{
		statusResult: &lhdn.SubmissionStatus{
			SubmissionUID: "SUB1",
			OverallStatus: lhdn.OverallPartiallyValid,
		},
	}
	poller := NewStatusPoller(tracker, client, metrics.NewNoopMetrics(), 10)

	advanced, err := poller.PollOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	stored, err := s.GetSubmissionByUID("SUB1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusValid, stored.Status)
}
