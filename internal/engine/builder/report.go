package builder

import (
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
)

// Report is the per-build manifest of task outcomes, keyed by identifier.
// It is safe for concurrent use while the build is running.
type Report struct {
	mu       sync.RWMutex
	statuses map[domain.Identifier]domain.TaskStatus
	failures map[domain.Identifier]error
}

func newReport() *Report {
	return &Report{
		statuses: make(map[domain.Identifier]domain.TaskStatus),
		failures: make(map[domain.Identifier]error),
	}
}

// Status returns the status of a task, or StatusPending if the task never
// entered the build.
func (r *Report) Status(id domain.Identifier) domain.TaskStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.statuses[id]; ok {
		return s
	}
	return domain.StatusPending
}

// Statuses returns a copy of all task statuses observed in this build.
func (r *Report) Statuses() map[domain.Identifier]domain.TaskStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.Identifier]domain.TaskStatus, len(r.statuses))
	for id, s := range r.statuses {
		out[id] = s
	}
	return out
}

// Failures returns a copy of the errors of all failed tasks.
func (r *Report) Failures() map[domain.Identifier]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.Identifier]error, len(r.failures))
	for id, err := range r.failures {
		out[id] = err
	}
	return out
}

// Failed reports whether any task failed.
func (r *Report) Failed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.failures) > 0
}

func (r *Report) setStatus(id domain.Identifier, status domain.TaskStatus) {
	r.mu.Lock()
	r.statuses[id] = status
	r.mu.Unlock()
}

func (r *Report) setFailure(id domain.Identifier, err error) {
	r.mu.Lock()
	r.statuses[id] = domain.StatusFailed
	r.failures[id] = err
	r.mu.Unlock()
}
