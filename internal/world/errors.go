package world

import "errors"

var (
	// ErrInstanceNotFound is returned when no live instance matches the
	// requested key.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrWaitTimeout is returned when an instance requested by a session
	// does not materialize within the configured wait window.
	ErrWaitTimeout = errors.New("timed out waiting for instance")
)
