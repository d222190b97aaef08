package config

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// kilnfile represents the structure of the kiln.yaml configuration file.
type kilnfile struct {
	Version string            `yaml:"version"`
	Roots   map[string]string `yaml:"roots"`
	Redis   string            `yaml:"redis"`
	Workers int               `yaml:"workers"`
	Ledger  string            `yaml:"ledger"`
	Verify  bool              `yaml:"verify"`
}

// toSettings merges the file content over the defaults and validates it.
func (f *kilnfile) toSettings() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	for name, location := range f.Roots {
		if name == "" {
			return nil, zerr.New("root name must not be empty")
		}
		if location == "" {
			return nil, zerr.With(zerr.New("root location must not be empty"), "root", name)
		}
		settings.Roots[name] = location
	}

	if f.Workers < 0 {
		return nil, zerr.With(zerr.New("workers must not be negative"), "workers", f.Workers)
	}
	if f.Workers > 0 {
		settings.Workers = f.Workers
	}

	if f.Redis != "" {
		settings.Redis = f.Redis
	}
	if f.Ledger != "" {
		settings.LedgerPath = f.Ledger
	}
	settings.Verify = f.Verify

	return settings, nil
}
