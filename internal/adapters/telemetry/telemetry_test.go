package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestRecorder_Lifecycle(t *testing.T) {
	rec := telemetry.NewRecorder()
	require.NotNil(t, rec)

	ctx := context.Background()
	id := domain.Identifier("0123456789abcdef0123456789abcdef")
	meta := domain.TaskMetadata{Name: "compile", Namespace: "frontend"}

	rec.OnTaskStart(ctx, id, meta)
	rec.OnTaskComplete(ctx, id)

	rec.OnTaskStart(ctx, "failing", domain.TaskMetadata{Name: "link"})
	rec.OnTaskFail(ctx, "failing", errors.New("boom"))

	rec.OnTaskSkip(ctx, "cached", domain.TaskMetadata{Name: "bundle", Namespace: "frontend"})

	assert.NoError(t, rec.Close())
}

func TestRecorder_CompleteWithoutStart(t *testing.T) {
	rec := telemetry.NewRecorder()

	// Unknown identifiers are ignored rather than panicking.
	rec.OnTaskComplete(context.Background(), "never-started")
	rec.OnTaskFail(context.Background(), "also-never-started", errors.New("x"))
}

func TestOTelHook_Lifecycle(t *testing.T) {
	hook := telemetry.NewOTelHook()
	require.NotNil(t, hook)

	ctx := context.Background()
	id := domain.Identifier("0123456789abcdef0123456789abcdef")

	hook.OnTaskStart(ctx, id, domain.TaskMetadata{Name: "compile", Version: "2"})
	hook.OnTaskComplete(ctx, id)

	hook.OnTaskStart(ctx, "failing", domain.TaskMetadata{Name: "link"})
	hook.OnTaskFail(ctx, "failing", errors.New("boom"))

	hook.OnTaskSkip(ctx, "cached", domain.TaskMetadata{Name: "bundle"})
}

func TestOTelHook_CompleteWithoutStart(t *testing.T) {
	hook := telemetry.NewOTelHook()
	hook.OnTaskComplete(context.Background(), "never-started")
}
