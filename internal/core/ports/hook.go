package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// RegistryHook is the seam through which build lifecycle events are reported
// to the external tracking service. Implementations must tolerate concurrent
// calls. Hook failures never abort a build: implementations handle their own
// errors, and the engine recovers panics.
//
//go:generate go run go.uber.org/mock/mockgen -source=hook.go -destination=mocks/mock_hook.go -package=mocks
type RegistryHook interface {
	// OnTaskStart is invoked when a task's work function is about to run.
	OnTaskStart(ctx context.Context, id domain.Identifier, meta domain.TaskMetadata)

	// OnTaskComplete is invoked after a task's work function succeeded.
	OnTaskComplete(ctx context.Context, id domain.Identifier)

	// OnTaskFail is invoked when a task failed.
	OnTaskFail(ctx context.Context, id domain.Identifier, err error)

	// OnTaskSkip is invoked when a task was already complete and execution
	// was skipped. The task never starts, so metadata is delivered here
	// rather than through OnTaskStart.
	OnTaskSkip(ctx context.Context, id domain.Identifier, meta domain.TaskMetadata)
}
