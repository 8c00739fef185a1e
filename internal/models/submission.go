package models

import "time"

// Status is the lifecycle state of a document submission.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusQueued    Status = "Queued"
	StatusSubmitted Status = "Submitted"
	StatusValid     Status = "Valid"
	StatusInvalid   Status = "Invalid"
	StatusCancelled Status = "Cancelled"
	StatusRejected  Status = "Rejected"
)

// transitions lists, per state, the states reachable from it. States absent
// from the map are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusQueued, StatusSubmitted, StatusRejected},
	StatusQueued:    {StatusSubmitted, StatusRejected},
	StatusSubmitted: {StatusValid, StatusInvalid, StatusCancelled},
}

// AllStatuses enumerates every known submission status.
var AllStatuses = []Status{
	StatusPending,
	StatusQueued,
	StatusSubmitted,
	StatusValid,
	StatusInvalid,
	StatusCancelled,
	StatusRejected,
}

// IsKnown returns true if s is one of the defined statuses.
func (s Status) IsKnown() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if target == allowed {
			return true
		}
	}
	return false
}

// Submission is the durable record of one document's submission lifecycle.
// Records are never deleted; status changes only through legal transitions.
type Submission struct {
	ID                string `gorm:"primaryKey"`
	InvoiceCodeNumber string `gorm:"not null;index"`
	FileName          string
	SubmissionUID     string `gorm:"index"` // authority-assigned, empty until accepted
	DocumentUID       string `gorm:"index"`
	Status            Status `gorm:"not null;default:'Pending';index"`
	Attempts          int    `gorm:"not null;default:0"`
	ErrorCode         string
	ErrorMessage      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	StatusChangedAt   time.Time
}
