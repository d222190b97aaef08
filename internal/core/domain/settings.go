package domain

// Settings holds the engine configuration resolved by the config adapter.
// How the values are populated (file, environment, a synced cache) is the
// concern of the configuration subsystem, not of the core.
type Settings struct {
	// Roots maps root names to base locations (a path or a scheme://prefix URI).
	Roots map[string]string

	// Redis is the address URL of the remote object store, empty when unused.
	Redis string

	// Workers bounds concurrent task execution. Zero means one worker per CPU.
	Workers int

	// LedgerPath is the location of the local build ledger file.
	LedgerPath string

	// Verify re-checks output checksums against the ledger when deciding
	// completeness.
	Verify bool
}

// DefaultSettings returns the settings used when no configuration is present.
func DefaultSettings() *Settings {
	return &Settings{
		Roots: map[string]string{
			DefaultRoot: "file://.kiln/targets",
		},
		LedgerPath: ".kiln/ledger.json",
	}
}
