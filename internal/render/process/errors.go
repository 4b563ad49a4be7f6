package process

import "errors"

// Errors returned by the process package.
var (
	// ErrJobNotStarted is returned when signaling a job whose
	// process is not running.
	ErrJobNotStarted = errors.New("job not started")

	// ErrJobAlreadyStarted is returned when starting a job twice.
	ErrJobAlreadyStarted = errors.New("job already started")

	// ErrJobNotFound is returned when a job ID is unknown.
	ErrJobNotFound = errors.New("job not found")

	// ErrSupervisorShutdown is returned when starting a job on a
	// supervisor that has shut down.
	ErrSupervisorShutdown = errors.New("supervisor is shut down")
)
