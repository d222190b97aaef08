package domain

import "context"

// Producer is a Task whose persisted output can be loaded as a value of
// type T. A parameter slot that accepts "anything producing a T" should be
// typed as Producer[T] so the capability is checked at construction time
// rather than probed at runtime.
type Producer[T any] interface {
	Task

	// Load reads the task's persisted output. It is only meaningful once
	// the task is complete.
	Load(ctx context.Context, resolver TargetResolver) (T, error)
}
