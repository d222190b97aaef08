// Package config provides the configuration loader for kiln.
package config

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file kiln looks for in the
// working directory.
const DefaultFilename = "kiln.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
// A missing file is not an error: the defaults apply.
type FileConfigLoader struct {
	Filename string
	log      ports.Logger
}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// NewLoader creates a FileConfigLoader for the default filename.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Filename: DefaultFilename, log: log}
}

// Load reads the configuration from the given working directory.
func (l *FileConfigLoader) Load(cwd string) (*domain.Settings, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			l.log.Debug("no config file found, using defaults")
			return domain.DefaultSettings(), nil
		}
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file kilnfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	return file.toSettings()
}
