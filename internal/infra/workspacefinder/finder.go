// Package workspacefinder locates the directory a scan works in: the nearest
// ancestor holding gmscraper.yaml.
package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/config"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

type Finder struct {
	configFile string
}

var _ ports.ConfigLocator = (*Finder)(nil)

type Option func(*Finder)

// WithConfigFile changes the file name that marks a workspace root.
func WithConfigFile(name string) Option {
	return func(f *Finder) {
		if name != "" {
			f.configFile = name
		}
	}
}

func NewFinder(opts ...Option) *Finder {
	f := &Finder{configFile: config.FileName}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindRoot walks up from startDir until it finds the config file.
func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		if _, err := os.Stat(filepath.Join(cur, f.configFile)); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// ResolveRoot picks the workspace root for a command. An explicit config path
// wins; otherwise the nearest gmscraper.yaml above startDir; otherwise startDir
// itself, so the scraper also works without any config file.
func (f *Finder) ResolveRoot(explicitConfig, startDir string) (root string, found bool, err error) {
	if explicitConfig != "" {
		abs, err := filepath.Abs(explicitConfig)
		if err != nil {
			return "", false, &domain.OpError{Op: "workspacefinder.resolve", Kind: domain.KindExecution, Err: err}
		}
		if _, err := os.Stat(abs); err != nil {
			return "", false, &domain.OpError{
				Op:   "workspacefinder.resolve",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  err,
			}
		}
		return filepath.Dir(abs), true, nil
	}

	root, err = f.FindRoot(startDir)
	if err == nil {
		return root, true, nil
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		return "", false, err
	}

	abs, aerr := filepath.Abs(startDir)
	if aerr != nil {
		return "", false, &domain.OpError{Op: "workspacefinder.resolve", Kind: domain.KindExecution, Err: aerr}
	}
	return abs, false, nil
}
