// Package config loads gmscraper.yaml over the built-in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// FileName is the configuration file looked up in a workspace root.
const FileName = "gmscraper.yaml"

// Load reads <root>/gmscraper.yaml and applies it over domain.DefaultConfig.
// A missing file yields the defaults and a KindNotFound error.
func Load(root string) (domain.Config, error) {
	return LoadFile(filepath.Join(root, FileName))
}

// LoadFile is Load for an explicit path (the --config flag).
func LoadFile(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, os.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}

	var y YAMLConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return Apply(path, cfg, y)
}
