package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// run is the per-invocation state of a build: the dedup table and the
// execution semaphore. Requirement traversal is unbounded; only work
// functions count against the worker limit, so a deep dependency chain
// cannot deadlock the pool.
type run struct {
	b      *Builder
	sem    *semaphore.Weighted
	report *Report

	mu      sync.Mutex
	entries map[domain.Identifier]*entry
	waiters map[*waiter]struct{}
}

// entry is the at-most-once claim on a task identity. The goroutine that
// inserts it owns the execution; everyone else waits on done.
type entry struct {
	done chan struct{}
	err  error
}

// waiter records a branch parked on another branch's entry: every identifier
// in path is blocked until target completes.
type waiter struct {
	path   []domain.Identifier
	target domain.Identifier
}

func (b *Builder) newRun() *run {
	return &run{
		b:       b,
		sem:     semaphore.NewWeighted(int64(b.workers)),
		report:  newReport(),
		entries: make(map[domain.Identifier]*entry),
		waiters: make(map[*waiter]struct{}),
	}
}

// build drives a single task and its requirements to completion. path holds
// the identifiers of the tasks currently being resolved on this branch, for
// cycle detection.
func (r *run) build(ctx context.Context, task domain.Task, path []domain.Identifier) error {
	id, err := domain.ComputeIdentifier(task)
	if err != nil {
		return zerr.Wrap(err, "failed to compute task identifier")
	}

	if slices.Contains(path, id) {
		return cycleError(path, id)
	}

	r.mu.Lock()
	e, claimed := r.entries[id]
	if claimed {
		// Another branch owns this identity. A cycle split across branches
		// never shows up in a single path, so before parking, check whether
		// the owner transitively waits on one of our ancestors.
		w := &waiter{path: path, target: id}
		if r.wouldDeadlock(w) {
			r.mu.Unlock()
			return cycleError(path, id)
		}
		r.waiters[w] = struct{}{}
		r.mu.Unlock()

		var werr error
		select {
		case <-e.done:
			werr = e.err
		case <-ctx.Done():
			werr = ctx.Err()
		}

		r.mu.Lock()
		delete(r.waiters, w)
		r.mu.Unlock()
		return werr
	}
	e = &entry{done: make(chan struct{})}
	r.entries[id] = e
	r.report.setStatus(id, domain.StatusPending)
	r.mu.Unlock()

	// Clip before appending so sibling branches never share a backing array.
	e.err = r.process(ctx, task, id, append(slices.Clip(path), id))
	close(e.done)
	return e.err
}

func (r *run) process(ctx context.Context, task domain.Task, id domain.Identifier, path []domain.Identifier) error {
	done, err := r.b.oracle.IsComplete(ctx, task)
	if err != nil {
		return r.fail(ctx, task, id, zerr.Wrap(err, "completion check failed"))
	}
	meta := domain.MetadataOf(task)
	if done {
		r.report.setStatus(id, domain.StatusCached)
		r.notify(func() { r.b.hook.OnTaskSkip(ctx, id, meta) })
		r.b.log.Debug(fmt.Sprintf("task already complete: %s (%s)", meta.Name, id))
		return nil
	}

	reqs, err := task.Requires()
	if err != nil {
		wrapped := zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrRequirementsFailed, err), "failed to resolve requirements")
		return r.fail(ctx, task, id, wrapped)
	}

	if err := r.buildRequirements(ctx, reqs, path); err != nil {
		return r.fail(ctx, task, id, err)
	}

	if err := ctx.Err(); err != nil {
		return r.fail(ctx, task, id, err)
	}

	// Requirement resolution above runs unbounded; only the work function
	// holds a worker slot.
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return r.fail(ctx, task, id, err)
	}
	defer r.sem.Release(1)

	r.report.setStatus(id, domain.StatusRunning)
	r.notify(func() { r.b.hook.OnTaskStart(ctx, id, meta) })

	if err := task.Run(ctx, r.b.resolver); err != nil {
		wrapped := zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrTaskFailed, err), "task execution failed")
		wrapped = zerr.With(wrapped, "task", meta.Name)
		wrapped = zerr.With(wrapped, "task_id", string(id))
		return r.fail(ctx, task, id, wrapped)
	}

	r.report.setStatus(id, domain.StatusCompleted)
	r.notify(func() { r.b.hook.OnTaskComplete(ctx, id) })
	r.record(ctx, task, id, domain.StatusCompleted, nil)
	return nil
}

// buildRequirements drives all requirements and joins their failures. Every
// requirement is attempted even when a sibling fails, so independent
// subtrees complete as far as they can.
func (r *run) buildRequirements(ctx context.Context, reqs []domain.Task, path []domain.Identifier) error {
	if len(reqs) == 0 {
		return nil
	}

	errs := make([]error, len(reqs))
	if r.b.sequential {
		for i, req := range reqs {
			errs[i] = r.build(ctx, req, path)
		}
	} else {
		var g errgroup.Group
		for i, req := range reqs {
			g.Go(func() error {
				errs[i] = r.build(ctx, req, path)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // Goroutines report through errs
	}

	if err := errors.Join(errs...); err != nil {
		return zerr.Wrap(err, "requirements not met")
	}
	return nil
}

// fail marks the task failed, notifies the hook, and records the outcome.
func (r *run) fail(ctx context.Context, task domain.Task, id domain.Identifier, err error) error {
	r.report.setFailure(id, err)
	r.notify(func() { r.b.hook.OnTaskFail(ctx, id, err) })
	r.record(ctx, task, id, domain.StatusFailed, err)
	return err
}

// record writes the build outcome to the ledger. Ledger failures are logged,
// never escalated: a successful build must not fail because its trace could
// not be persisted.
func (r *run) record(ctx context.Context, task domain.Task, id domain.Identifier, status domain.TaskStatus, buildErr error) {
	if r.b.ledger == nil {
		return
	}

	meta := domain.MetadataOf(task)
	rec := domain.BuildRecord{
		Identifier: id,
		Name:       meta.Name,
		Namespace:  meta.Namespace,
		Status:     status,
		Timestamp:  time.Now().UTC(),
	}
	if buildErr != nil {
		rec.Error = buildErr.Error()
	}
	if status == domain.StatusCompleted {
		rec.OutputChecksum = r.outputChecksum(ctx, task)
	}

	if err := r.b.ledger.Put(rec); err != nil {
		r.b.log.Warn(fmt.Sprintf("failed to record build outcome for %s: %v", id, err))
	}
}

func (r *run) outputChecksum(ctx context.Context, task domain.Task) string {
	target, err := task.Output(r.b.resolver)
	if err != nil || target == nil {
		return ""
	}
	cs, ok := target.(domain.Checksummer)
	if !ok {
		return ""
	}
	sum, err := cs.Checksum(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", sum)
}

// notify invokes a hook callback, recovering panics so a broken hook cannot
// take the build down.
func (r *run) notify(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.b.log.Warn(fmt.Sprintf("registry hook panicked: %v", rec))
		}
	}()
	fn()
}

// wouldDeadlock reports whether parking w would close a wait-for cycle:
// following the parked waiters from w.target reaches an identifier that is
// still being resolved on w's own branch. Callers hold r.mu.
func (r *run) wouldDeadlock(w *waiter) bool {
	blocked := map[domain.Identifier]bool{w.target: true}
	for changed := true; changed; {
		changed = false
		for other := range r.waiters {
			if blocked[other.target] {
				continue
			}
			for _, anc := range other.path {
				if blocked[anc] {
					blocked[other.target] = true
					changed = true
					break
				}
			}
		}
	}
	return slices.ContainsFunc(w.path, func(id domain.Identifier) bool { return blocked[id] })
}

func cycleError(path []domain.Identifier, id domain.Identifier) error {
	start := slices.Index(path, id)
	if start < 0 {
		start = 0
	}
	cycle := make([]string, 0, len(path)-start+1)
	for _, p := range path[start:] {
		cycle = append(cycle, string(p))
	}
	cycle = append(cycle, string(id))
	return zerr.With(zerr.Wrap(domain.ErrCycleDetected, "requirement cycle"), "cycle", strings.Join(cycle, " -> "))
}
