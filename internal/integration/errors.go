package integration

import "errors"

// Errors returned by the integration package.
var (
	// ErrNoIntegration is returned when no registered integration
	// handles a buffer's content type.
	ErrNoIntegration = errors.New("no integration for filetype")

	// ErrDuplicateIntegration is returned when registering an
	// integration whose ID is already taken.
	ErrDuplicateIntegration = errors.New("integration already registered")

	// ErrRendererNotFound is returned when a discovered diagram
	// references a renderer id missing from the integration's set.
	ErrRendererNotFound = errors.New("renderer not found in integration")
)
