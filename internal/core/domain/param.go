package domain

import (
	"fmt"
	"math"

	"go.trai.ch/zerr"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Kind. Values of this kind cannot be hashed.
	KindInvalid Kind = iota
	// KindString holds a string.
	KindString
	// KindInt holds a signed integer.
	KindInt
	// KindFloat holds a float64.
	KindFloat
	// KindBool holds a boolean.
	KindBool
	// KindList holds an ordered sequence of Values.
	KindList
	// KindMap holds a mapping with order-irrelevant string keys.
	KindMap
	// KindTask holds a reference to another Task. Only the referenced task's
	// identifier is folded into a parent's hash input, never its content.
	KindTask
)

// Value is a closed tagged variant for task parameters. Parameters are either
// primitive/structured values or references to other tasks, which is what
// allows nested DAG composition without a shared mutable graph.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	list []Value
	m    map[string]Value
	task Task
}

// Parameters is the named parameter set of a task.
type Parameters map[string]Value

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List returns an ordered sequence Value.
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// Map returns a mapping Value. Key order is irrelevant for identity.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// TaskRef returns a Value referencing another task.
func TaskRef(t Task) Value { return Value{kind: KindTask, task: t} }

// Kind returns the variant held by the Value.
func (v Value) Kind() Kind { return v.kind }

// Task returns the referenced task, or nil if the Value is not a task reference.
func (v Value) Task() Task {
	if v.kind != KindTask {
		return nil
	}
	return v.task
}

// From converts a dynamic value into a Value. Unsupported types fail fast
// with ErrUnhashableParameter instead of falling back to an unstable
// representation.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case Task:
		return TaskRef(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case bool:
		return Bool(x), nil
	case []any:
		list := make([]Value, len(x))
		for i, e := range x {
			ev, err := From(e)
			if err != nil {
				return Value{}, err
			}
			list[i] = ev
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := From(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = ev
		}
		return Map(m), nil
	default:
		return Value{}, zerr.With(zerr.Wrap(ErrUnhashableParameter, "unsupported parameter type"), "type", fmt.Sprintf("%T", v))
	}
}

// validate checks that the Value can be canonicalized. NaN floats compare
// unequal to themselves and would break identity determinism, so they are
// rejected alongside invalid kinds and nil task references.
func (v Value) validate() error {
	switch v.kind {
	case KindFloat:
		if math.IsNaN(v.f) {
			return zerr.Wrap(ErrUnhashableParameter, "NaN float")
		}
	case KindTask:
		if v.task == nil {
			return zerr.Wrap(ErrUnhashableParameter, "nil task reference")
		}
	case KindInvalid:
		return zerr.Wrap(ErrUnhashableParameter, "zero value")
	case KindString, KindInt, KindBool, KindList, KindMap:
	}
	return nil
}
