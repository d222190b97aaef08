package ports

import "go.trai.ch/kiln/internal/core/domain"

// Ledger stores and retrieves build records by task identifier.
//
//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks
type Ledger interface {
	// Get retrieves the record for the given identifier.
	// Returns nil, nil if not found.
	Get(id domain.Identifier) (*domain.BuildRecord, error)

	// Put stores the record.
	Put(rec domain.BuildRecord) error
}
