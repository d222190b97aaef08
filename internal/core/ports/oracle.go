package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// CompletionOracle decides whether a task's desired effect has already been
// achieved. Completion must be monotonic within a build: once true for a
// task identity it stays true unless storage is externally mutated.
//
//go:generate go run go.uber.org/mock/mockgen -source=oracle.go -destination=mocks/mock_oracle.go -package=mocks
type CompletionOracle interface {
	IsComplete(ctx context.Context, task domain.Task) (bool, error)
}
