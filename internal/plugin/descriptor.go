package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/stormdbg/internal/config"
)

// ActivationEntry is one record of the activation descriptor.
type ActivationEntry struct {
	ID      string `yaml:"id"`
	Enabled bool   `yaml:"enabled"`
}

type activationFile struct {
	Plugins []ActivationEntry `yaml:"plugins"`
}

// DefaultDescriptorPath returns the activation descriptor location used when
// none is configured.
func DefaultDescriptorPath() string {
	return filepath.Join(config.DefaultDir(), "plugins.yaml")
}

// ReadActivationSet decodes the descriptor at path.
func ReadActivationSet(path string) ([]ActivationEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f activationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return f.Plugins, nil
}

// WriteActivationSet encodes entries to path, creating parent directories.
func WriteActivationSet(path string, entries []ActivationEntry) error {
	if entries == nil {
		entries = []ActivationEntry{}
	}
	data, err := yaml.Marshal(&activationFile{Plugins: entries})
	if err != nil {
		return fmt.Errorf("encode activation set: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plugin config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write activation set: %w", err)
	}
	return nil
}
