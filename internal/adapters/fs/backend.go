// Package fs implements the local filesystem storage backend.
package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Backend stores target content as plain files. Writes go to a temporary
// file in the destination directory and are committed with an atomic rename,
// so a concurrent reader sees either the full content or nothing.
type Backend struct{}

// New creates a new filesystem Backend.
func New() *Backend {
	return &Backend{}
}

var (
	_ ports.Backend         = (*Backend)(nil)
	_ ports.ChecksumBackend = (*Backend)(nil)
)

// Scheme returns "file".
func (b *Backend) Scheme() string { return "file" }

// Exists reports whether the file at key exists.
func (b *Backend) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.FromSlash(key))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, domain.StorageError(err, "failed to stat target")
	}
	return true, nil
}

// Open returns a reader over the file at key.
func (b *Backend) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.FromSlash(key)) //nolint:gosec // Key is resolved by the factory from trusted roots
	if err != nil {
		return nil, zerr.With(domain.StorageError(err, "failed to open target"), "path", key)
	}
	return f, nil
}

// Create returns a writer committing to key on Close.
func (b *Backend) Create(_ context.Context, key string) (io.WriteCloser, error) {
	final := filepath.FromSlash(key)
	dir := filepath.Dir(final)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(domain.StorageError(err, "failed to create target directory"), "path", dir)
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, ".kiln-tmp-*")
	if err != nil {
		return nil, zerr.With(domain.StorageError(err, "failed to create temp file"), "path", dir)
	}

	return &fileWriter{tmp: tmp, final: final}, nil
}

// Checksum computes the XXHash of the file's content.
func (b *Backend) Checksum(_ context.Context, key string) (uint64, error) {
	f, err := os.Open(filepath.FromSlash(key)) //nolint:gosec // Key is resolved by the factory from trusted roots
	if err != nil {
		return 0, zerr.With(domain.StorageError(err, "failed to open target"), "path", key)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, zerr.With(domain.StorageError(err, "failed to hash target content"), "path", key)
	}
	return h.Sum64(), nil
}

// fileWriter writes to a temp file and renames it into place on Close.
// A write error poisons the writer: Close discards the temp file and
// returns the error instead of committing a partial result.
type fileWriter struct {
	tmp   *os.File
	final string
	werr  error
}

func (w *fileWriter) Write(p []byte) (int, error) {
	if w.werr != nil {
		return 0, w.werr
	}
	n, err := w.tmp.Write(p)
	if err != nil {
		w.werr = err
	}
	return n, err
}

func (w *fileWriter) Close() error {
	name := w.tmp.Name()

	if w.werr != nil {
		_ = w.tmp.Close()
		_ = os.Remove(name)
		return domain.StorageError(w.werr, "aborting partial target write")
	}

	if err := w.tmp.Close(); err != nil {
		_ = os.Remove(name)
		return domain.StorageError(err, "failed to close temp file")
	}

	if err := os.Rename(name, w.final); err != nil {
		_ = os.Remove(name)
		return zerr.With(domain.StorageError(err, "failed to commit target"), "path", w.final)
	}
	return nil
}
