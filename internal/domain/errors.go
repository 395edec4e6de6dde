package domain

import "errors"

// Sentinel errors for the core's failure taxonomy. Services wrap these with
// operation context; callers classify with errors.Is. Missing-entity
// conditions use repository.ErrNotFound instead.
var (
	// ErrValidation marks malformed or contradictory input, such as a
	// negative hour value or an inverted date range.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks a role or ownership violation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a state precondition violation, such as clocking in
	// while an interval is still open or editing a reviewed leave request.
	ErrConflict = errors.New("conflict")
)
