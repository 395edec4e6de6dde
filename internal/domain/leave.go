package domain

import (
	"fmt"
	"time"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// LeaveRequest is a single request moving through a three-state machine:
// Pending is the initial state, Approved and Rejected are terminal.
type LeaveRequest struct {
	ID          string
	UserID      string
	StartDate   time.Time // date-only, UTC
	EndDate     time.Time // date-only, UTC
	Reason      string
	Status      LeaveStatus
	SubmittedAt time.Time
	ReviewedBy  *string
	ReviewedAt  *time.Time
}

// ValidateLeaveDates rejects ranges where the start date falls after the end
// date. Equal dates are a valid single-day leave.
func ValidateLeaveDates(start, end time.Time) error {
	if DateOnly(start).After(DateOnly(end)) {
		return fmt.Errorf("start date must be on or before end date: %w", ErrValidation)
	}
	return nil
}

// Pending reports whether the request can still be reviewed, edited, or
// deleted.
func (l *LeaveRequest) Pending() bool {
	return l.Status == LeavePending
}

// Approve transitions Pending -> Approved, stamping the reviewer.
func (l *LeaveRequest) Approve(reviewerID string, now time.Time) error {
	return l.review(LeaveApproved, reviewerID, now)
}

// Reject transitions Pending -> Rejected, stamping the reviewer.
func (l *LeaveRequest) Reject(reviewerID string, now time.Time) error {
	return l.review(LeaveRejected, reviewerID, now)
}

func (l *LeaveRequest) review(to LeaveStatus, reviewerID string, now time.Time) error {
	if !l.Pending() {
		return fmt.Errorf("leave request is already %s: %w", l.Status, ErrConflict)
	}
	l.Status = to
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	return nil
}
