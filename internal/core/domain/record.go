package domain

import "time"

// BuildRecord is the durable trace of a task build, keyed by identifier.
// It backs incremental verification and the local build ledger.
type BuildRecord struct {
	Identifier     Identifier `json:"identifier,omitzero"`
	Name           string     `json:"name,omitzero"`
	Namespace      string     `json:"namespace,omitzero"`
	Status         TaskStatus `json:"status,omitzero"`
	OutputChecksum string     `json:"output_checksum,omitzero"`
	Error          string     `json:"error,omitzero"`
	Timestamp      time.Time  `json:"timestamp,omitzero"`
}
