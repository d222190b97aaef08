package builder

import (
	"context"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// TargetOracle is the default completion oracle: a task is complete when its
// output target exists. A task overriding completion via domain.Completer is
// asked directly; a task with no output is never complete.
type TargetOracle struct {
	resolver domain.TargetResolver
}

var _ ports.CompletionOracle = (*TargetOracle)(nil)

// NewTargetOracle creates a TargetOracle resolving outputs through the
// given resolver.
func NewTargetOracle(resolver domain.TargetResolver) *TargetOracle {
	return &TargetOracle{resolver: resolver}
}

// IsComplete reports whether the task's desired effect is already achieved.
func (o *TargetOracle) IsComplete(ctx context.Context, task domain.Task) (bool, error) {
	if c, ok := task.(domain.Completer); ok {
		return c.Complete(ctx, o.resolver)
	}

	target, err := task.Output(o.resolver)
	if err != nil {
		return false, zerr.Wrap(err, "failed to resolve task output")
	}
	if target == nil {
		return false, nil
	}
	return target.Exists(ctx)
}

// VerifyingOracle wraps another oracle and additionally compares the output
// checksum against the recorded one. An output mutated behind the engine's
// back is treated as incomplete so the task rebuilds.
type VerifyingOracle struct {
	inner    ports.CompletionOracle
	resolver domain.TargetResolver
	ledger   ports.Ledger
}

var _ ports.CompletionOracle = (*VerifyingOracle)(nil)

// NewVerifyingOracle creates a VerifyingOracle.
func NewVerifyingOracle(inner ports.CompletionOracle, resolver domain.TargetResolver, ledger ports.Ledger) *VerifyingOracle {
	return &VerifyingOracle{inner: inner, resolver: resolver, ledger: ledger}
}

// IsComplete reports completion, demoting it to false on checksum mismatch.
func (o *VerifyingOracle) IsComplete(ctx context.Context, task domain.Task) (bool, error) {
	done, err := o.inner.IsComplete(ctx, task)
	if err != nil || !done {
		return done, err
	}

	id, err := domain.ComputeIdentifier(task)
	if err != nil {
		return false, err
	}

	rec, err := o.ledger.Get(id)
	if err != nil {
		return false, zerr.Wrap(err, "failed to read build record")
	}
	if rec == nil || rec.OutputChecksum == "" {
		// Nothing recorded to verify against; trust existence.
		return true, nil
	}

	target, err := task.Output(o.resolver)
	if err != nil {
		return false, zerr.Wrap(err, "failed to resolve task output")
	}
	cs, ok := target.(domain.Checksummer)
	if !ok {
		return true, nil
	}

	sum, err := cs.Checksum(ctx)
	if err != nil {
		return false, zerr.Wrap(err, "failed to checksum task output")
	}
	return fmt.Sprintf("%016x", sum) == rec.OutputChecksum, nil
}
