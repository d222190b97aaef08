// Package registry provides registry hook implementations and composition.
package registry

import (
	"context"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// NopHook implements ports.RegistryHook doing nothing.
type NopHook struct{}

var _ ports.RegistryHook = (*NopHook)(nil)

func (NopHook) OnTaskStart(context.Context, domain.Identifier, domain.TaskMetadata) {}
func (NopHook) OnTaskComplete(context.Context, domain.Identifier)                   {}
func (NopHook) OnTaskFail(context.Context, domain.Identifier, error)                {}
func (NopHook) OnTaskSkip(context.Context, domain.Identifier, domain.TaskMetadata)  {}

// LogHook implements ports.RegistryHook by logging lifecycle events.
type LogHook struct {
	log ports.Logger
}

var _ ports.RegistryHook = (*LogHook)(nil)

// NewLogHook creates a LogHook writing to the given logger.
func NewLogHook(log ports.Logger) *LogHook {
	return &LogHook{log: log}
}

func (h *LogHook) OnTaskStart(_ context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	h.log.Info(fmt.Sprintf("task started: %s (%s)", meta.Name, id))
}

func (h *LogHook) OnTaskComplete(_ context.Context, id domain.Identifier) {
	h.log.Info(fmt.Sprintf("task completed: %s", id))
}

func (h *LogHook) OnTaskFail(_ context.Context, id domain.Identifier, err error) {
	h.log.Warn(fmt.Sprintf("task failed: %s: %v", id, err))
}

func (h *LogHook) OnTaskSkip(_ context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	h.log.Debug(fmt.Sprintf("task skipped, already complete: %s (%s)", meta.Name, id))
}

// MultiHook fans registry events out to several hooks. A panicking hook
// is logged and must never fail the build.
type MultiHook struct {
	hooks []ports.RegistryHook
	log   ports.Logger
}

var _ ports.RegistryHook = (*MultiHook)(nil)

// NewMultiHook composes the given hooks. Nil entries are skipped.
func NewMultiHook(log ports.Logger, hooks ...ports.RegistryHook) *MultiHook {
	m := &MultiHook{log: log}
	for _, h := range hooks {
		if h != nil {
			m.hooks = append(m.hooks, h)
		}
	}
	return m
}

func (m *MultiHook) OnTaskStart(ctx context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	for _, h := range m.hooks {
		m.safely("OnTaskStart", func() { h.OnTaskStart(ctx, id, meta) })
	}
}

func (m *MultiHook) OnTaskComplete(ctx context.Context, id domain.Identifier) {
	for _, h := range m.hooks {
		m.safely("OnTaskComplete", func() { h.OnTaskComplete(ctx, id) })
	}
}

func (m *MultiHook) OnTaskFail(ctx context.Context, id domain.Identifier, err error) {
	for _, h := range m.hooks {
		m.safely("OnTaskFail", func() { h.OnTaskFail(ctx, id, err) })
	}
}

func (m *MultiHook) OnTaskSkip(ctx context.Context, id domain.Identifier, meta domain.TaskMetadata) {
	for _, h := range m.hooks {
		m.safely("OnTaskSkip", func() { h.OnTaskSkip(ctx, id, meta) })
	}
}

func (m *MultiHook) safely(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn(fmt.Sprintf("registry hook panicked in %s: %v", event, r))
		}
	}()
	fn()
}
