// Package service contains the business logic of the platform.
package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes; everything else surfaces as an internal error.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPasswordTooShort is returned when a password fails the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrForbidden is returned when the caller is not allowed to act on the
	// target record.
	ErrForbidden = errors.New("operation not permitted")

	// ErrTerminalStatus is returned when a moderation decision targets an
	// item whose status no longer accepts that transition.
	ErrTerminalStatus = errors.New("item already reached a final decision")

	// ErrFeedbackRequired is returned when a refine or needs_revision
	// decision carries no feedback.
	ErrFeedbackRequired = errors.New("feedback is required for this decision")

	// ErrNotResubmittable is returned when a resubmission targets a record
	// that was not sent back for changes.
	ErrNotResubmittable = errors.New("record is not awaiting resubmission")

	// ErrAlreadyReviewed is returned when a payment decision targets a
	// submission that was already decided.
	ErrAlreadyReviewed = errors.New("payment already reviewed")
)
