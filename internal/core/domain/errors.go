package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrUnhashableParameter is returned when a parameter value cannot be
	// canonicalized for identity hashing.
	ErrUnhashableParameter = zerr.New("parameter cannot be hashed")

	// ErrUnknownRoot is returned when a target root name has no configured base location.
	ErrUnknownRoot = zerr.New("unknown target root")

	// ErrUnknownScheme is returned when no storage backend is registered for a root's URI scheme.
	ErrUnknownScheme = zerr.New("no backend registered for scheme")

	// ErrCycleDetected is returned when a task's requirements form a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrRequirementsFailed is returned when a task's requirements callback fails.
	// It is treated as a failure of the requesting task, not of its dependencies.
	ErrRequirementsFailed = zerr.New("requirements resolution failed")

	// ErrTaskFailed is returned when a task's work function fails.
	ErrTaskFailed = zerr.New("task execution failed")

	// ErrStorage marks backend I/O failures so callers can distinguish
	// infrastructure errors from task logic errors.
	ErrStorage = zerr.New("storage backend failure")

	// ErrNoTasksRequested is returned when a build is invoked with no tasks.
	ErrNoTasksRequested = zerr.New("no tasks requested")
)

// StorageError wraps err so that it matches ErrStorage while preserving the cause.
func StorageError(err error, msg string) error {
	return zerr.Wrap(fmt.Errorf("%w: %w", ErrStorage, err), msg)
}
