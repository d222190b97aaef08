package domain

// TaskStatus represents the lifecycle state of a task within one build invocation.
type TaskStatus string

const (
	// StatusPending indicates the task has not reached a terminal state yet.
	StatusPending TaskStatus = "pending"
	// StatusRunning indicates the task's work function is currently executing.
	StatusRunning TaskStatus = "running"
	// StatusCompleted indicates the work function executed successfully.
	StatusCompleted TaskStatus = "completed"
	// StatusFailed indicates the task failed (identity, resolution, or execution).
	StatusFailed TaskStatus = "failed"
	// StatusCached indicates the task was already complete and execution was skipped.
	StatusCached TaskStatus = "cached"
)

// IsTerminal reports whether the status is a terminal state.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCached:
		return true
	default:
		return false
	}
}

// IsSuccess reports whether the status is a terminal successful state.
// A task may only start once all of its requirements reached such a state.
func (s TaskStatus) IsSuccess() bool {
	return s == StatusCompleted || s == StatusCached
}
