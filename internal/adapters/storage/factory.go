// Package storage implements the target factory: it resolves relative paths
// and named roots into concrete storage handles backed by scheme-addressed
// backends.
package storage

import (
	"path"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Factory resolves targets from a root-name mapping and a set of backends
// registered by URI scheme. The mapping is read-only after construction and
// safe to share across build workers without locking.
type Factory struct {
	roots    map[string]string
	backends map[string]ports.Backend
}

var _ domain.TargetResolver = (*Factory)(nil)

// NewFactory creates a Factory from a root-name mapping and backends.
// Registering two backends for the same scheme is a configuration error.
func NewFactory(roots map[string]string, backends ...ports.Backend) (*Factory, error) {
	f := &Factory{
		roots:    make(map[string]string, len(roots)),
		backends: make(map[string]ports.Backend, len(backends)),
	}
	for name, base := range roots {
		f.roots[name] = base
	}
	for _, b := range backends {
		if b == nil {
			continue
		}
		if _, exists := f.backends[b.Scheme()]; exists {
			return nil, zerr.With(zerr.New("duplicate backend scheme"), "scheme", b.Scheme())
		}
		f.backends[b.Scheme()] = b
	}
	return f, nil
}

// Resolve returns a target for relPath under the named root. The resolved
// key is a pure function of the root's base location and relPath, so it is
// stable across runs for a fixed configuration.
func (f *Factory) Resolve(relPath string, root string) (domain.Target, error) {
	if root == "" {
		root = domain.DefaultRoot
	}

	base, ok := f.roots[root]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownRoot, "no such root configured"), "root", root)
	}

	scheme, prefix := splitScheme(base)
	backend, ok := f.backends[scheme]
	if !ok {
		wrapped := zerr.With(zerr.Wrap(domain.ErrUnknownScheme, "no backend registered"), "scheme", scheme)
		return nil, zerr.With(wrapped, "root", root)
	}

	key := joinKey(prefix, relPath)
	t := &target{backend: backend, key: key}
	if cb, ok := backend.(ports.ChecksumBackend); ok {
		return &checksumTarget{target: t, backend: cb}, nil
	}
	return t, nil
}

// Roots returns a copy of the root-name mapping.
func (f *Factory) Roots() map[string]string {
	cp := make(map[string]string, len(f.roots))
	for k, v := range f.roots {
		cp[k] = v
	}
	return cp
}

// splitScheme splits "scheme://prefix" into its parts. A base location
// without a scheme is treated as a local filesystem path.
func splitScheme(base string) (scheme, prefix string) {
	if s, rest, ok := strings.Cut(base, "://"); ok {
		return s, rest
	}
	return "file", base
}

// joinKey joins the root prefix and the relative path using forward slashes.
// Backends convert to their native separator where needed. The relative path
// is cleaned so it cannot escape the root.
func joinKey(prefix, relPath string) string {
	cleaned := path.Join("/", relPath)
	return path.Join(prefix, cleaned)
}
