// Package telemetry provides registry hooks that report build progress
// to external observability systems.
package telemetry

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Recorder implements ports.RegistryHook on top of a progrock tape. Each
// task becomes a vertex keyed by its identifier digest.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu       sync.Mutex
	vertices map[domain.Identifier]*progrock.VertexRecorder
}

var _ ports.RegistryHook = (*Recorder)(nil)

// NewRecorder creates a Recorder with a default tape.
func NewRecorder() *Recorder {
	return NewRecorderWithWriter(progrock.NewTape())
}

// NewRecorderWithWriter creates a Recorder with the given writer.
func NewRecorderWithWriter(w progrock.Writer) *Recorder {
	return &Recorder{
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[domain.Identifier]*progrock.VertexRecorder),
	}
}

// OnTaskStart opens a vertex for the task.
func (r *Recorder) OnTaskStart(_ context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	v := r.rec.Vertex(digest.FromString(string(id)), vertexName(meta))

	r.mu.Lock()
	r.vertices[id] = v
	r.mu.Unlock()
}

// OnTaskComplete closes the task's vertex as successful.
func (r *Recorder) OnTaskComplete(_ context.Context, id domain.Identifier) {
	if v := r.take(id); v != nil {
		v.Done(nil)
	}
}

// OnTaskFail closes the task's vertex with an error.
func (r *Recorder) OnTaskFail(_ context.Context, id domain.Identifier, err error) {
	if v := r.take(id); v != nil {
		v.Done(err)
	}
}

// OnTaskSkip marks the task's output as a cache hit. Skipped tasks never
// started, so the vertex is created and closed in one step.
func (r *Recorder) OnTaskSkip(_ context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	v := r.rec.Vertex(digest.FromString(string(id)), vertexName(meta))
	v.Cached()
	v.Done(nil)
}

func vertexName(meta domain.TaskMetadata) string {
	if meta.Namespace != "" {
		return meta.Namespace + "/" + meta.Name
	}
	return meta.Name
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) take(id domain.Identifier) *progrock.VertexRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.vertices[id]
	delete(r.vertices, id)
	return v
}
