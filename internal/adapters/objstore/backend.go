// Package objstore implements a Redis-backed remote storage backend.
package objstore

import (
	"bytes"
	"context"
	"io"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Backend stores target content as Redis string values. Writers buffer
// the full content and upload it in a single SET on Close, so a partial
// write never becomes visible.
type Backend struct {
	client *redis.Client
}

// New creates a Backend from a Redis connection URL.
func New(url string) (*Backend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse redis url"), "url", url)
	}
	return &Backend{client: redis.NewClient(opts)}, nil
}

var _ ports.Backend = (*Backend)(nil)

// Scheme returns "redis".
func (b *Backend) Scheme() string { return "redis" }

// Exists reports whether a value exists under key.
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, zerr.With(domain.StorageError(err, "failed to check remote target"), "key", key)
	}
	return n > 0, nil
}

// Open returns a reader over the value under key.
func (b *Backend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, zerr.With(domain.StorageError(err, "failed to fetch remote target"), "key", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer uploading the buffered content on Close.
func (b *Backend) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	return &redisWriter{ctx: ctx, client: b.client, key: key}, nil
}

// Close releases the underlying Redis connection pool.
func (b *Backend) Close() error {
	return b.client.Close()
}

type redisWriter struct {
	ctx    context.Context
	client *redis.Client
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *redisWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *redisWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.client.Set(w.ctx, w.key, w.buf.Bytes(), 0).Err(); err != nil {
		return zerr.With(domain.StorageError(err, "failed to upload remote target"), "key", w.key)
	}
	return nil
}
