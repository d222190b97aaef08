package domain

import (
	"context"
	"io"
)

// DefaultRoot is the root name used when a task does not specify one.
const DefaultRoot = "default"

// Target is a handle to a storage location holding a task's output. It is
// owned by exactly one task and may be constructed fresh on every call; any
// long-lived state (e.g. a connection) lives in the backend, not the target.
type Target interface {
	// Exists reports whether the target's content has been materialized.
	// A write followed by Exists must return true.
	Exists(ctx context.Context) (bool, error)

	// Open returns a reader over the target's content. The caller must
	// close the reader on every exit path.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Create returns a writer for the target's content. The write becomes
	// visible atomically when Close succeeds; a failed write is never
	// partially visible to a concurrent reader.
	Create(ctx context.Context) (io.WriteCloser, error)
}

// Checksummer is an optional Target capability exposing a cheap content
// checksum, used to detect externally mutated outputs.
type Checksummer interface {
	Checksum(ctx context.Context) (uint64, error)
}

// TargetResolver resolves a relative path and a named root into a concrete
// storage handle. The root-name mapping is injected explicitly; the resolver
// never reads ambient global state. For a fixed root configuration and task
// identifier the resolved location is stable across runs, which is what
// makes caching safe.
type TargetResolver interface {
	// Resolve returns a target for relPath under the named root. An empty
	// root selects DefaultRoot. Unknown roots are a configuration error.
	Resolve(relPath string, root string) (Target, error)
}
