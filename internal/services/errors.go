// Package services defines the business logic for the ledger, the session
// tracker, and reporting. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing chat messages is performed by the bot layer.
package services

import "errors"

// Ledger errors.
var (
	// ErrEmptyName is returned when a client or project name is blank after
	// normalization.
	ErrEmptyName = errors.New("name is empty")

	// ErrDuplicateClient is returned when the account already has a client
	// with the same name.
	ErrDuplicateClient = errors.New("client already exists")

	// ErrDuplicateProject is returned when the client already has a project
	// with the same name for this account.
	ErrDuplicateProject = errors.New("project already exists")

	// ErrInvalidRate is returned when an hourly rate fails to parse or is
	// negative, NaN, or infinite.
	ErrInvalidRate = errors.New("hourly rate must be a non-negative number")

	// ErrClientNotFound indicates that the selected client does not exist or
	// is not owned by the account.
	ErrClientNotFound = errors.New("client not found")

	// ErrProjectNotFound indicates that the selected project does not exist
	// or is not owned by the account.
	ErrProjectNotFound = errors.New("project not found")
)

// Tracker errors.
var (
	// ErrTimerActive is returned when a start is attempted while the account
	// already has an open entry. The store is left untouched.
	ErrTimerActive = errors.New("a timer is already running")

	// ErrNoActiveTimer is returned by stop and status operations when the
	// account has no open entry.
	ErrNoActiveTimer = errors.New("no active timer")

	// ErrTaskRequired is returned when a start is attempted with an empty
	// task type, or an "Other" task without a description.
	ErrTaskRequired = errors.New("task type is required")
)
