// Package builder implements the build orchestrator: lazy dependency
// resolution, completion checks, deduplicated concurrent execution, and
// result reporting.
package builder

import (
	"context"
	"errors"
	"runtime"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Builder drives tasks to completion. It is stateless across builds: every
// Build call runs with a fresh dedup table and report, so the same Builder
// can serve successive invocations.
type Builder struct {
	resolver   domain.TargetResolver
	oracle     ports.CompletionOracle
	hook       ports.RegistryHook
	ledger     ports.Ledger
	log        ports.Logger
	workers    int
	sequential bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithOracle overrides the default target-existence completion oracle.
func WithOracle(oracle ports.CompletionOracle) Option {
	return func(b *Builder) { b.oracle = oracle }
}

// WithHook installs a registry hook receiving lifecycle events.
func WithHook(hook ports.RegistryHook) Option {
	return func(b *Builder) { b.hook = hook }
}

// WithLedger installs a ledger recording build outcomes.
func WithLedger(ledger ports.Ledger) Option {
	return func(b *Builder) { b.ledger = ledger }
}

// WithLogger installs a logger.
func WithLogger(log ports.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// WithWorkers bounds the number of concurrently executing work functions.
// Zero or negative means one worker per CPU.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// WithSequential makes the builder run everything on the calling goroutine,
// in depth-first requirement order.
func WithSequential() Option {
	return func(b *Builder) { b.sequential = true }
}

// New creates a Builder resolving targets through the given resolver.
func New(resolver domain.TargetResolver, opts ...Option) *Builder {
	b := &Builder{
		resolver: resolver,
		hook:     nopHook{},
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.oracle == nil {
		b.oracle = NewTargetOracle(resolver)
	}
	if b.workers <= 0 {
		b.workers = runtime.NumCPU()
	}
	return b
}

// Build drives the requested tasks and everything they transitively require
// to completion. Each distinct task identity executes at most once. The
// returned error joins the failures of the requested tasks; the Report is
// returned even on failure and covers every task touched by the build.
func (b *Builder) Build(ctx context.Context, tasks ...domain.Task) (*Report, error) {
	if len(tasks) == 0 {
		return nil, domain.ErrNoTasksRequested
	}

	r := b.newRun()

	if b.sequential {
		errs := make([]error, len(tasks))
		for i, task := range tasks {
			errs[i] = r.build(ctx, task, nil)
		}
		return r.report, errors.Join(errs...)
	}

	// A plain group, not WithContext: a failing subtree must not cancel
	// independent siblings.
	var g errgroup.Group
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = r.build(ctx, task, nil)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Goroutines report through errs

	return r.report, errors.Join(errs...)
}

type nopHook struct{}

func (nopHook) OnTaskStart(context.Context, domain.Identifier, domain.TaskMetadata) {}
func (nopHook) OnTaskComplete(context.Context, domain.Identifier)                   {}
func (nopHook) OnTaskFail(context.Context, domain.Identifier, error)                {}
func (nopHook) OnTaskSkip(context.Context, domain.Identifier, domain.TaskMetadata)  {}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}
