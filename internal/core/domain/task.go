// Package domain contains the core model of the build engine: tasks,
// parameter values, identifiers, targets, and build records.
package domain

import (
	"context"
	"reflect"
	"strings"
)

// Definition is the identity-bearing part of a task: everything that goes
// into its identifier. Name, namespace, version, and the parameter set fully
// determine a task's identity; no hidden state may influence it.
type Definition struct {
	// Name identifies the task type. When empty, the Go type name of the
	// task is used.
	Name string
	// Namespace disambiguates tasks with identical names across packages.
	Namespace string
	// Version allows invalidating previously materialized outputs when the
	// task's logic changes.
	Version string
	// Params are the named parameters of this task instance.
	Params Parameters
}

// Task is an immutable description of a unit of work. Implementations must
// not mutate state that influences Definition after construction.
type Task interface {
	// Definition returns the identity-bearing description of the task.
	Definition() Definition

	// Requires returns the tasks that must be complete before this task can
	// run. It is called once per task per build pass; the dependency graph
	// is discovered lazily by recursing into the result. An error is
	// treated as a failure of this task, not of its dependencies.
	Requires() ([]Task, error)

	// Output resolves the storage target holding this task's durable output.
	// A nil target means the task has no persisted output and is never
	// considered complete unless it implements Completer.
	Output(resolver TargetResolver) (Target, error)

	// Run executes the work function. It is invoked only once all
	// requirements reached a terminal successful state, and must honor ctx
	// cancellation at its suspension points.
	Run(ctx context.Context, resolver TargetResolver) error
}

// Completer is an optional interface for tasks whose completion is not
// defined by output existence. Once Complete returns true for a given task
// identity it must keep returning true unless the underlying storage is
// externally mutated.
type Completer interface {
	Complete(ctx context.Context, resolver TargetResolver) (bool, error)
}

// Base provides default implementations for optional Task methods so that
// simple tasks only declare what they need.
type Base struct{}

// Requires declares no requirements.
func (Base) Requires() ([]Task, error) { return nil, nil }

// Output declares no persisted output.
func (Base) Output(TargetResolver) (Target, error) { return nil, nil }

// NameOf returns the effective name of a task: its declared name, or the Go
// type name when none is declared.
func NameOf(t Task) string {
	if name := t.Definition().Name; name != "" {
		return name
	}
	rt := reflect.TypeOf(t)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	name := rt.Name()
	if name == "" {
		// Anonymous type; fall back to the full string form.
		name = strings.ReplaceAll(rt.String(), " ", "")
	}
	return name
}

// TaskMetadata is the descriptive payload passed to registry hooks.
type TaskMetadata struct {
	Name      string
	Namespace string
	Version   string
}

// MetadataOf extracts hook metadata from a task.
func MetadataOf(t Task) TaskMetadata {
	def := t.Definition()
	return TaskMetadata{
		Name:      NameOf(t),
		Namespace: def.Namespace,
		Version:   def.Version,
	}
}
