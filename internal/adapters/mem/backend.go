// Package mem implements an in-memory storage backend, primarily for tests.
package mem

import (
	"bytes"
	"context"
	"io"
	iofs "io/fs"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Backend stores target content in a map. Writers buffer everything and
// swap the content in whole on Close, so readers never observe a partial
// write.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates an empty in-memory Backend.
func New() *Backend {
	return &Backend{objects: make(map[string][]byte)}
}

var (
	_ ports.Backend         = (*Backend)(nil)
	_ ports.ChecksumBackend = (*Backend)(nil)
)

// Scheme returns "mem".
func (b *Backend) Scheme() string { return "mem" }

// Exists reports whether content exists under key.
func (b *Backend) Exists(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.objects[key]
	return ok, nil
}

// Open returns a reader over a snapshot of the content under key.
func (b *Backend) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	data, ok := b.objects[key]
	b.mu.RUnlock()

	if !ok {
		return nil, zerr.With(domain.StorageError(iofs.ErrNotExist, "target not found"), "key", key)
	}

	// Copy so later writes cannot mutate what an open reader sees.
	snapshot := make([]byte, len(data))
	copy(snapshot, data)
	return io.NopCloser(bytes.NewReader(snapshot)), nil
}

// Create returns a writer committing the buffered content on Close.
func (b *Backend) Create(_ context.Context, key string) (io.WriteCloser, error) {
	return &memWriter{backend: b, key: key}, nil
}

// Checksum computes the XXHash of the content under key.
func (b *Backend) Checksum(_ context.Context, key string) (uint64, error) {
	b.mu.RLock()
	data, ok := b.objects[key]
	b.mu.RUnlock()

	if !ok {
		return 0, zerr.With(domain.StorageError(iofs.ErrNotExist, "target not found"), "key", key)
	}
	return xxhash.Sum64(data), nil
}

// Keys returns all stored keys. Used by tests.
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys
}

type memWriter struct {
	backend *Backend
	key     string
	buf     bytes.Buffer
	closed  bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	data := make([]byte, w.buf.Len())
	copy(data, w.buf.Bytes())

	w.backend.mu.Lock()
	w.backend.objects[w.key] = data
	w.backend.mu.Unlock()
	return nil
}
