// Package ledger implements persistent storage for build records.
package ledger

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.Ledger using a flat JSON file keyed by task
// identifier.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[domain.Identifier]domain.BuildRecord
}

var _ ports.Ledger = (*Store)(nil)

// NewStore creates a new Ledger backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[domain.Identifier]domain.BuildRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read ledger")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal ledger")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal ledger")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for ledger")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write ledger")
	}

	return nil
}

// Get retrieves the build record for a task identifier. A missing record
// is not an error: both return values are nil.
func (s *Store) Get(id domain.Identifier) (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the build record.
func (s *Store) Put(rec domain.BuildRecord) error {
	// Update cache first
	s.mu.Lock()
	s.cache[rec.Identifier] = rec
	s.mu.Unlock()

	// Then save to disk
	return s.save()
}
