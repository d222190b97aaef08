package storage

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// target is a storage handle bound to one backend and one key. It holds no
// mutable state; shared state such as connections lives in the backend.
type target struct {
	backend ports.Backend
	key     string
}

var _ domain.Target = (*target)(nil)

func (t *target) Exists(ctx context.Context) (bool, error) {
	return t.backend.Exists(ctx, t.key)
}

func (t *target) Open(ctx context.Context) (io.ReadCloser, error) {
	return t.backend.Open(ctx, t.key)
}

func (t *target) Create(ctx context.Context) (io.WriteCloser, error) {
	return t.backend.Create(ctx, t.key)
}

// checksumTarget is returned when the backend supports content checksums.
type checksumTarget struct {
	*target
	backend ports.ChecksumBackend
}

var _ domain.Checksummer = (*checksumTarget)(nil)

func (t *checksumTarget) Checksum(ctx context.Context) (uint64, error) {
	return t.backend.Checksum(ctx, t.key)
}
