package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusQueued, true},
		{StatusPending, StatusSubmitted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusValid, false},
		{StatusPending, StatusInvalid, false},
		{StatusPending, StatusCancelled, false},

		{StatusQueued, StatusSubmitted, true},
		{StatusQueued, StatusRejected, true},
		{StatusQueued, StatusPending, false},
		{StatusQueued, StatusValid, false},

		{StatusSubmitted, StatusValid, true},
		{StatusSubmitted, StatusInvalid, true},
		{StatusSubmitted, StatusCancelled, true},
		{StatusSubmitted, StatusRejected, false},
		{StatusSubmitted, StatusPending, false},

		// Terminal states allow nothing
		{StatusValid, StatusInvalid, false},
		{StatusValid, StatusPending, false},
		{StatusInvalid, StatusValid, false},
		{StatusCancelled, StatusSubmitted, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusSubmitted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []Status{StatusValid, StatusInvalid, StatusCancelled, StatusRejected}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("Expected %s to be terminal", s)
		}
	}

	nonTerminal := []Status{StatusPending, StatusQueued, StatusSubmitted}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("Expected %s to be non-terminal", s)
		}
	}
}

func TestIsKnown(t *testing.T) {
	for _, s := range AllStatuses {
		if !s.IsKnown() {
			t.Errorf("Expected %s to be known", s)
		}
	}
	if Status("Bogus").IsKnown() {
		t.Error("Expected unknown status to report IsKnown() == false")
	}
}
