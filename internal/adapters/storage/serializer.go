package storage

import (
	"context"
	"encoding/json"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Serializer encodes and decodes typed payloads for targets.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONSerializer is the default serializer.
type JSONSerializer struct{}

// Marshal encodes v as JSON.
func (JSONSerializer) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes JSON data into v.
func (JSONSerializer) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// YAMLSerializer encodes payloads as YAML.
type YAMLSerializer struct{}

// Marshal encodes v as YAML.
func (YAMLSerializer) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

// Unmarshal decodes YAML data into v.
func (YAMLSerializer) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// Load reads and decodes a typed payload from a target using the given
// serializer. The reader is released on every exit path.
func Load[T any](ctx context.Context, t domain.Target, s Serializer) (T, error) {
	var out T

	rc, err := t.Open(ctx)
	if err != nil {
		return out, zerr.Wrap(err, "failed to open target for read")
	}
	defer rc.Close() //nolint:errcheck // Best effort close after read

	data, err := io.ReadAll(rc)
	if err != nil {
		return out, domain.StorageError(err, "failed to read target")
	}

	if err := s.Unmarshal(data, &out); err != nil {
		return out, zerr.Wrap(err, "failed to decode target payload")
	}
	return out, nil
}

// Save encodes and writes a typed payload to a target. The write becomes
// visible atomically when the underlying writer commits on Close.
func Save[T any](ctx context.Context, t domain.Target, s Serializer, v T) error {
	data, err := s.Marshal(v)
	if err != nil {
		return zerr.Wrap(err, "failed to encode target payload")
	}

	wc, err := t.Create(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to open target for write")
	}

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return domain.StorageError(err, "failed to write target")
	}

	if err := wc.Close(); err != nil {
		return domain.StorageError(err, "failed to commit target")
	}
	return nil
}

// LoadJSON reads a JSON payload from a target.
func LoadJSON[T any](ctx context.Context, t domain.Target) (T, error) {
	return Load[T](ctx, t, JSONSerializer{})
}

// SaveJSON writes a JSON payload to a target.
func SaveJSON[T any](ctx context.Context, t domain.Target, v T) error {
	return Save(ctx, t, JSONSerializer{}, v)
}
