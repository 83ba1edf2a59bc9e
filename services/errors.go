package services

import (
	"errors"
)

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP responses; none of them is retried automatically — concurrency
// races surface as conflicts for the caller to retry at their discretion.
var (
	// ErrNotFound means a referenced entity does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the actor lacks the role or ownership required
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrValidation means input is malformed or out of range
	ErrValidation = errors.New("validation failed")

	// ErrApplicationsClosed means the internship is not accepting applications
	ErrApplicationsClosed = errors.New("internship is not accepting applications")

	// ErrAlreadyApplied means the student already has an application for the internship
	ErrAlreadyApplied = errors.New("already applied for this internship")

	// ErrCapacityReached means the internship has no free participant slots
	ErrCapacityReached = errors.New("maximum participants reached")

	// ErrInvalidTransition means the requested status change is not in the
	// application lifecycle's transition table
	ErrInvalidTransition = errors.New("invalid application status transition")

	// ErrNotAccepted means work was submitted on an application that is not accepted
	ErrNotAccepted = errors.New("application is not accepted")

	// ErrBadgeAlreadyIssued means a badge for this (student, internship, type)
	// already exists
	ErrBadgeAlreadyIssued = errors.New("badge already issued")

	// ErrAlreadyLinked means the student already has a linked mentor
	ErrAlreadyLinked = errors.New("student already has a linked mentor")

	// ErrProgressDecreased means a patch tried to lower a progress value
	ErrProgressDecreased = errors.New("progress cannot decrease")
)

// IsConflict reports whether err is one of the conflict-class failures
// (duplicate application, duplicate badge, capacity exceeded, duplicate link)
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyApplied) ||
		errors.Is(err, ErrCapacityReached) ||
		errors.Is(err, ErrBadgeAlreadyIssued) ||
		errors.Is(err, ErrAlreadyLinked)
}
