package app

import "errors"

// Errors returned by the session.
var (
	// ErrSessionClosed is returned by operations on a shut-down
	// session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrNoImageBackend is returned at setup when the terminal
	// supports no graphics protocol and none was supplied.
	ErrNoImageBackend = errors.New("no image backend available")
)
