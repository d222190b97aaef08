package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

const tracerName = "go.trai.ch/kiln"

// OTelHook implements ports.RegistryHook by emitting one span per task
// execution. Spans use the globally registered tracer provider.
type OTelHook struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[domain.Identifier]trace.Span
}

var _ ports.RegistryHook = (*OTelHook)(nil)

// NewOTelHook creates an OTelHook.
func NewOTelHook() *OTelHook {
	return &OTelHook{
		tracer: otel.Tracer(tracerName),
		spans:  make(map[domain.Identifier]trace.Span),
	}
}

// OnTaskStart opens a span for the task.
func (h *OTelHook) OnTaskStart(ctx context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	_, span := h.tracer.Start(ctx, meta.Name, trace.WithAttributes(
		attribute.String("kiln.task.id", string(id)),
		attribute.String("kiln.task.namespace", meta.Namespace),
		attribute.String("kiln.task.version", meta.Version),
	))

	h.mu.Lock()
	h.spans[id] = span
	h.mu.Unlock()
}

// OnTaskComplete ends the task's span with an OK status.
func (h *OTelHook) OnTaskComplete(_ context.Context, id domain.Identifier) {
	if span := h.take(id); span != nil {
		span.SetStatus(codes.Ok, "")
		span.End()
	}
}

// OnTaskFail records the error and ends the task's span.
func (h *OTelHook) OnTaskFail(_ context.Context, id domain.Identifier, err error) {
	if span := h.take(id); span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
	}
}

// OnTaskSkip emits a zero-duration span marking the cache hit.
func (h *OTelHook) OnTaskSkip(ctx context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	_, span := h.tracer.Start(ctx, meta.Name, trace.WithAttributes(
		attribute.String("kiln.task.id", string(id)),
		attribute.String("kiln.task.namespace", meta.Namespace),
		attribute.Bool("kiln.task.cached", true),
	))
	span.End()
}

func (h *OTelHook) take(id domain.Identifier) trace.Span {
	h.mu.Lock()
	defer h.mu.Unlock()

	span := h.spans[id]
	delete(h.spans, id)
	return span
}
