// Package config loads the optional brix.yaml project file from the input
// directory. CLI flags take precedence over everything it sets.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ProjectConfig mirrors the brix.yaml file placed next to the CSV files.
type ProjectConfig struct {
	Database  string `yaml:"database,omitempty"`
	DetectPK  bool   `yaml:"detect_pk,omitempty"`
	MaxRows   int64  `yaml:"max_rows,omitempty"`
	SkipLarge int64  `yaml:"skip_large,omitempty"`
	Sample    int    `yaml:"sample,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
}

const ConfigFileName = "brix.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
