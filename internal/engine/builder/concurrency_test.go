package builder_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/builder"
)

func TestBuild_ConcurrentWaitersShareOneExecution(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		factory := newFactory(t)
		b := builder.New(factory, builder.WithWorkers(4))

		var runs atomic.Int32
		started := make(chan struct{})
		proceed := make(chan struct{})

		shared := &testTask{
			name:   "shared",
			output: "shared.json",
			runs:   &runs,
			runFn: func(ctx context.Context) error {
				close(started)
				select {
				case <-proceed:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		}
		left := &testTask{name: "left", output: "left.json", requires: []domain.Task{shared}}
		right := &testTask{name: "right", output: "right.json", requires: []domain.Task{shared}}

		errCh := make(chan error)
		go func() {
			_, err := b.Build(context.Background(), left, right)
			errCh <- err
		}()

		// Both branches reach the shared task while it is mid-flight; only
		// one execution may be in progress.
		synctest.Wait()
		<-started
		assert.Equal(t, int32(1), runs.Load())

		close(proceed)
		require.NoError(t, <-errCh)
		assert.Equal(t, int32(1), runs.Load())
	})
}

func TestBuild_WorkerLimitBoundsExecution(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		factory := newFactory(t)
		b := builder.New(factory, builder.WithWorkers(2))

		var active, peak atomic.Int32
		release := make(chan struct{})

		mkTask := func(name string) *testTask {
			return &testTask{
				name:   name,
				output: name + ".json",
				runFn: func(ctx context.Context) error {
					n := active.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					<-release
					active.Add(-1)
					return nil
				},
			}
		}

		tasks := []domain.Task{mkTask("w1"), mkTask("w2"), mkTask("w3"), mkTask("w4")}

		errCh := make(chan error)
		go func() {
			_, err := b.Build(context.Background(), tasks...)
			errCh <- err
		}()

		// All goroutines are blocked: two holding worker slots, two waiting
		// on the semaphore.
		synctest.Wait()
		assert.Equal(t, int32(2), active.Load())

		close(release)
		require.NoError(t, <-errCh)
		assert.Equal(t, int32(2), peak.Load())
	})
}

func TestBuild_CycleAcrossBranchesDetected(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		factory := newFactory(t)
		b := builder.New(factory, builder.WithWorkers(4))

		// Each top-level branch claims its own task before either resolves
		// requirements, so the cycle never appears in a single branch's
		// path: both branches end up waiting on the other's entry.
		var bothClaimed sync.WaitGroup
		bothClaimed.Add(2)

		alpha := &testTask{name: "alpha"}
		gamma := &testTask{name: "gamma"}
		alpha.requiresFn = func() ([]domain.Task, error) {
			bothClaimed.Done()
			bothClaimed.Wait()
			return []domain.Task{gamma}, nil
		}
		gamma.requiresFn = func() ([]domain.Task, error) {
			bothClaimed.Done()
			bothClaimed.Wait()
			return []domain.Task{alpha}, nil
		}

		_, err := b.Build(context.Background(), alpha, gamma)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCycleDetected)
	})
}

func TestBuild_CancellationReleasesWaiters(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		factory := newFactory(t)
		b := builder.New(factory, builder.WithWorkers(4))

		ctx, cancel := context.WithCancel(context.Background())

		started := make(chan struct{})
		blocker := &testTask{
			name:   "blocker",
			output: "blocker.json",
			runFn: func(ctx context.Context) error {
				close(started)
				<-ctx.Done()
				return ctx.Err()
			},
		}
		dependent := &testTask{name: "dependent", requires: []domain.Task{blocker}}

		errCh := make(chan error)
		go func() {
			_, err := b.Build(ctx, dependent, blocker)
			errCh <- err
		}()

		synctest.Wait()
		<-started

		cancel()
		err := <-errCh
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
