package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.trai.ch/zerr"
)

// Identifier is the deterministic fingerprint of a task's identity: a
// 128-bit digest rendered as a 32-character hex string. Two tasks with the
// same name, namespace, version, and parameter set share an identifier; any
// difference in an included parameter yields a different one.
type Identifier string

// String returns the hex form of the identifier.
func (id Identifier) String() string { return string(id) }

// ComputeIdentifier computes the fingerprint of a task. Nested task
// parameters are replaced by their own identifiers, computed recursively
// bottom-up, so changing any upstream parameter changes every downstream
// identifier. Parameters that cannot be canonicalized fail fast with
// ErrUnhashableParameter.
func ComputeIdentifier(t Task) (Identifier, error) {
	if t == nil {
		return "", zerr.Wrap(ErrUnhashableParameter, "nil task")
	}

	def := t.Definition()
	h := sha256.New()

	writeString(h, NameOf(t))
	writeString(h, def.Namespace)
	writeString(h, def.Version)

	if err := writeValue(h, Map(def.Params)); err != nil {
		return "", zerr.With(err, "task", NameOf(t))
	}

	sum := h.Sum(nil)
	return Identifier(hex.EncodeToString(sum[:16])), nil
}

// writeString writes a length-prefixed string so that field boundaries are
// unambiguous regardless of content.
func writeString(w io.Writer, s string) {
	_, _ = fmt.Fprintf(w, "s%d:%s", len(s), s)
}

// writeValue writes the canonical representation of a Value: kind-tagged,
// length-prefixed, map keys sorted, sequence order preserved.
func writeValue(w io.Writer, v Value) error {
	if err := v.validate(); err != nil {
		return err
	}

	switch v.kind {
	case KindString:
		writeString(w, v.str)
	case KindInt:
		_, _ = fmt.Fprintf(w, "i%d;", v.i)
	case KindFloat:
		_, _ = fmt.Fprintf(w, "f%s;", strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindBool:
		if v.b {
			_, _ = io.WriteString(w, "b1;")
		} else {
			_, _ = io.WriteString(w, "b0;")
		}
	case KindList:
		_, _ = fmt.Fprintf(w, "l%d:", len(v.list))
		for _, e := range v.list {
			if err := writeValue(w, e); err != nil {
				return err
			}
		}
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		_, _ = fmt.Fprintf(w, "m%d:", len(keys))
		for _, k := range keys {
			writeString(w, k)
			if err := writeValue(w, v.m[k]); err != nil {
				return zerr.With(err, "key", k)
			}
		}
	case KindTask:
		id, err := ComputeIdentifier(v.task)
		if err != nil {
			return err
		}
		_, _ = io.WriteString(w, "t")
		writeString(w, string(id))
	case KindInvalid:
		return zerr.Wrap(ErrUnhashableParameter, "zero value")
	}

	return nil
}
