// Package ports defines the core interfaces for the build engine.
package ports

import (
	"context"
	"io"
)

// Backend is the storage backend plugin interface. Any implementation can
// be registered with the target factory under its URI scheme and is then
// selected by a root's scheme. Backends are responsible for their own
// internal thread-safety.
//
//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Scheme returns the URI scheme this backend serves, e.g. "file".
	Scheme() string

	// Exists reports whether content exists under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Open returns a reader over the content under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Create returns a writer for the content under key. The content
	// becomes visible atomically when Close succeeds; backends that cannot
	// guarantee this must document it.
	Create(ctx context.Context, key string) (io.WriteCloser, error)
}

// ChecksumBackend is an optional Backend capability exposing content
// checksums without the caller streaming the content itself.
type ChecksumBackend interface {
	Checksum(ctx context.Context, key string) (uint64, error)
}
