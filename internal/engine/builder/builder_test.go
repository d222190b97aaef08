package builder_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/ledger"
	"go.trai.ch/kiln/internal/adapters/mem"
	"go.trai.ch/kiln/internal/adapters/storage"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/builder"
	"go.uber.org/mock/gomock"
)

// testTask is a configurable task for builder tests. Identity comes from
// name and params; behavior from the optional callbacks.
type testTask struct {
	name        string
	params      domain.Parameters
	requires    []domain.Task
	requiresErr error
	requiresFn  func() ([]domain.Task, error)
	output      string
	runErr      error
	runFn       func(ctx context.Context) error
	runs        *atomic.Int32
}

func (t *testTask) Definition() domain.Definition {
	return domain.Definition{Name: t.name, Params: t.params}
}

func (t *testTask) Requires() ([]domain.Task, error) {
	if t.requiresFn != nil {
		return t.requiresFn()
	}
	return t.requires, t.requiresErr
}

func (t *testTask) Output(resolver domain.TargetResolver) (domain.Target, error) {
	if t.output == "" {
		return nil, nil
	}
	return resolver.Resolve(t.output, domain.DefaultRoot)
}

func (t *testTask) Run(ctx context.Context, resolver domain.TargetResolver) error {
	if t.runs != nil {
		t.runs.Add(1)
	}
	if t.runFn != nil {
		if err := t.runFn(ctx); err != nil {
			return err
		}
	}
	if t.runErr != nil {
		return t.runErr
	}
	if t.output != "" {
		target, err := t.Output(resolver)
		if err != nil {
			return err
		}
		return storage.SaveJSON(ctx, target, t.name)
	}
	return nil
}

func newFactory(t *testing.T) *storage.Factory {
	t.Helper()
	factory, err := storage.NewFactory(map[string]string{
		domain.DefaultRoot: "mem://targets",
	}, mem.New())
	require.NoError(t, err)
	return factory
}

func mustID(t *testing.T, task domain.Task) domain.Identifier {
	t.Helper()
	id, err := domain.ComputeIdentifier(task)
	require.NoError(t, err)
	return id
}

func TestBuild_NoTasks(t *testing.T) {
	b := builder.New(newFactory(t))
	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoTasksRequested)
}

func TestBuild_SingleTask(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	var runs atomic.Int32
	task := &testTask{name: "single", output: "single.json", runs: &runs}

	report, err := b.Build(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, domain.StatusCompleted, report.Status(mustID(t, task)))
	assert.False(t, report.Failed())

	target, err := task.Output(factory)
	require.NoError(t, err)
	exists, err := target.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBuild_Idempotent(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	var runs atomic.Int32
	task := &testTask{name: "idem", output: "idem.json", runs: &runs}

	_, err := b.Build(context.Background(), task)
	require.NoError(t, err)
	require.Equal(t, int32(1), runs.Load())

	report, err := b.Build(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, int32(1), runs.Load(), "second build must not re-run a complete task")
	assert.Equal(t, domain.StatusCached, report.Status(mustID(t, task)))
}

func TestBuild_Diamond_SharedDependencyRunsOnce(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	var baseRuns atomic.Int32
	base := &testTask{name: "base", output: "base.json", runs: &baseRuns}
	left := &testTask{name: "left", output: "left.json", requires: []domain.Task{base}}
	right := &testTask{name: "right", output: "right.json", requires: []domain.Task{base}}
	top := &testTask{name: "top", output: "top.json", requires: []domain.Task{left, right}}

	report, err := b.Build(context.Background(), top)
	require.NoError(t, err)
	assert.Equal(t, int32(1), baseRuns.Load())

	for _, task := range []domain.Task{base, left, right, top} {
		assert.Equal(t, domain.StatusCompleted, report.Status(mustID(t, task)))
	}
}

func TestBuild_EqualIdentityDedupedAcrossInstances(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	var runs atomic.Int32
	// Two distinct instances with identical definitions share an identity
	// and must execute at most once.
	twin1 := &testTask{name: "twin", output: "twin.json", runs: &runs}
	twin2 := &testTask{name: "twin", output: "twin.json", runs: &runs}
	parent := &testTask{name: "parent", output: "parent.json", requires: []domain.Task{twin1, twin2}}

	_, err := b.Build(context.Background(), parent)
	require.NoError(t, err)
	assert.Equal(t, int32(1), runs.Load())
}

func TestBuild_FailureIsolation(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	boom := errors.New("boom")
	failing := &testTask{name: "failing", output: "failing.json", runErr: boom}
	dependent := &testTask{name: "dependent", output: "dependent.json", requires: []domain.Task{failing}}

	var healthyRuns atomic.Int32
	healthy := &testTask{name: "healthy", output: "healthy.json", runs: &healthyRuns}

	report, err := b.Build(context.Background(), dependent, healthy)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskFailed)
	assert.ErrorIs(t, err, boom)

	// The independent sibling completed despite the failure.
	assert.Equal(t, int32(1), healthyRuns.Load())
	assert.Equal(t, domain.StatusCompleted, report.Status(mustID(t, healthy)))

	// The failing task and its dependent are both failed; the dependent
	// never ran.
	assert.Equal(t, domain.StatusFailed, report.Status(mustID(t, failing)))
	assert.Equal(t, domain.StatusFailed, report.Status(mustID(t, dependent)))

	failures := report.Failures()
	assert.Contains(t, failures, mustID(t, failing))
	assert.Contains(t, failures, mustID(t, dependent))
}

func TestBuild_RequiresErrorFailsTaskNotDependencies(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	task := &testTask{
		name:        "broken-requires",
		requiresErr: errors.New("cannot enumerate"),
	}

	report, err := b.Build(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequirementsFailed)
	assert.Equal(t, domain.StatusFailed, report.Status(mustID(t, task)))
}

func TestBuild_CycleDetected(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	a := &testTask{name: "a"}
	bTask := &testTask{name: "b"}
	a.requires = []domain.Task{bTask}
	bTask.requires = []domain.Task{a}

	_, err := b.Build(context.Background(), a)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestBuild_SelfCycleDetected(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	a := &testTask{name: "self"}
	a.requires = []domain.Task{a}

	_, err := b.Build(context.Background(), a)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestBuild_Sequential(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory, builder.WithSequential())

	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	dep := &testTask{name: "dep", output: "dep.json", runFn: record("dep")}
	top := &testTask{name: "top", output: "top.json", requires: []domain.Task{dep}, runFn: record("top")}

	_, err := b.Build(context.Background(), top)
	require.NoError(t, err)
	assert.Equal(t, []string{"dep", "top"}, order)
}

func TestBuild_ContextCancelled(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := &testTask{name: "cancelled", output: "cancelled.json"}
	var runs atomic.Int32
	task.runs = &runs

	_, err := b.Build(ctx, task)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, runs.Load(), "work functions must not start after cancellation")
}

func TestBuild_HookLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := newFactory(t)
	hook := mocks.NewMockRegistryHook(ctrl)
	b := builder.New(factory, builder.WithHook(hook))

	task := &testTask{name: "hooked", output: "hooked.json"}
	id := mustID(t, task)

	gomock.InOrder(
		hook.EXPECT().OnTaskStart(gomock.Any(), id, gomock.Any()),
		hook.EXPECT().OnTaskComplete(gomock.Any(), id),
	)

	_, err := b.Build(context.Background(), task)
	require.NoError(t, err)

	// Second build: already complete, the hook sees a skip carrying the
	// task's metadata so cached tasks stay attributable by name.
	hook.EXPECT().OnTaskSkip(gomock.Any(), id, gomock.Any()).Do(
		func(_ context.Context, _ domain.Identifier, meta domain.TaskMetadata) {
			assert.Equal(t, "hooked", meta.Name)
		})
	_, err = b.Build(context.Background(), task)
	require.NoError(t, err)
}

func TestBuild_HookFailureEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := newFactory(t)
	hook := mocks.NewMockRegistryHook(ctrl)
	b := builder.New(factory, builder.WithHook(hook))

	boom := errors.New("boom")
	task := &testTask{name: "doomed", runErr: boom}
	id := mustID(t, task)

	hook.EXPECT().OnTaskStart(gomock.Any(), id, gomock.Any())
	hook.EXPECT().OnTaskFail(gomock.Any(), id, gomock.Any()).Do(
		func(_ context.Context, _ domain.Identifier, err error) {
			assert.ErrorIs(t, err, boom)
		})

	_, err := b.Build(context.Background(), task)
	require.Error(t, err)
}

func TestBuild_PanickingHookDoesNotFailBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := newFactory(t)
	hook := mocks.NewMockRegistryHook(ctrl)
	b := builder.New(factory, builder.WithHook(hook))

	task := &testTask{name: "survivor", output: "survivor.json"}

	hook.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), gomock.Any()).Do(
		func(context.Context, domain.Identifier, domain.TaskMetadata) {
			panic("hook exploded")
		})
	hook.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any())

	report, err := b.Build(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, report.Status(mustID(t, task)))
}

func TestBuild_OracleError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := newFactory(t)
	oracle := mocks.NewMockCompletionOracle(ctrl)
	b := builder.New(factory, builder.WithOracle(oracle))

	task := &testTask{name: "unverifiable"}
	oracle.EXPECT().IsComplete(gomock.Any(), gomock.Any()).Return(false, errors.New("backend down"))

	report, err := b.Build(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion check failed")
	assert.Equal(t, domain.StatusFailed, report.Status(mustID(t, task)))
}

func TestBuild_TaskWithoutOutputAlwaysRuns(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory)

	var runs atomic.Int32
	task := &testTask{name: "effectful", runs: &runs}

	_, err := b.Build(context.Background(), task)
	require.NoError(t, err)
	_, err = b.Build(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, int32(2), runs.Load(), "a task with no output is never considered complete")
}

func TestBuild_LedgerRecordsOutcome(t *testing.T) {
	factory := newFactory(t)
	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	b := builder.New(factory, builder.WithLedger(store))

	task := &testTask{name: "recorded", output: "recorded.json"}
	_, err = b.Build(context.Background(), task)
	require.NoError(t, err)

	rec, err := store.Get(mustID(t, task))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
	assert.Equal(t, "recorded", rec.Name)
	assert.NotEmpty(t, rec.OutputChecksum)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestBuild_LedgerRecordsFailure(t *testing.T) {
	factory := newFactory(t)
	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	b := builder.New(factory, builder.WithLedger(store))

	task := &testTask{name: "doomed", runErr: errors.New("boom")}
	_, err = b.Build(context.Background(), task)
	require.Error(t, err)

	rec, err := store.Get(mustID(t, task))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusFailed, rec.Status)
	assert.Contains(t, rec.Error, "boom")
}

func TestBuild_VerifyingOracleDetectsMutation(t *testing.T) {
	factory := newFactory(t)
	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	oracle := builder.NewVerifyingOracle(builder.NewTargetOracle(factory), factory, store)
	b := builder.New(factory, builder.WithLedger(store), builder.WithOracle(oracle))

	var runs atomic.Int32
	task := &testTask{name: "verified", output: "verified.json", runs: &runs}

	ctx := context.Background()
	_, err = b.Build(ctx, task)
	require.NoError(t, err)
	require.Equal(t, int32(1), runs.Load())

	// Untouched output: still complete.
	_, err = b.Build(ctx, task)
	require.NoError(t, err)
	require.Equal(t, int32(1), runs.Load())

	// Mutate the output behind the engine's back.
	target, err := task.Output(factory)
	require.NoError(t, err)
	require.NoError(t, storage.SaveJSON(ctx, target, "tampered"))

	_, err = b.Build(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, int32(2), runs.Load(), "a mutated output must trigger a rebuild")
}

func TestBuild_DeepChainDoesNotDeadlockWithOneWorker(t *testing.T) {
	factory := newFactory(t)
	b := builder.New(factory, builder.WithWorkers(1))

	// chain of 50 tasks, each requiring the next
	var next domain.Task
	for i := 49; i >= 0; i-- {
		task := &testTask{name: fmt.Sprintf("link-%d", i), output: fmt.Sprintf("link-%d.json", i)}
		if next != nil {
			task.requires = []domain.Task{next}
		}
		next = task
	}

	report, err := b.Build(context.Background(), next)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Len(t, report.Statuses(), 50)
}
