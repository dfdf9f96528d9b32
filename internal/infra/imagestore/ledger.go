package imagestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

const defaultLedgerFile = "downloaded.json"

// Ledger keeps a JSON array of downloaded image ids next to the images.
type Ledger struct {
	file string
}

var _ ports.DownloadLedger = (*Ledger)(nil)

type LedgerOption func(*Ledger)

func WithLedgerFile(name string) LedgerOption {
	return func(l *Ledger) {
		if name != "" {
			l.file = name
		}
	}
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{file: defaultLedgerFile}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the recorded ids; a missing ledger is an empty set.
func (l *Ledger) Load(dir string) (map[string]struct{}, error) {
	path := filepath.Join(dir, l.file)

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return nil, &domain.OpError{
			Op:   "imagestore.ledger.load",
			Kind: domain.KindImageDownload,
			Path: path,
			Err:  err,
		}
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, &domain.OpError{
			Op:   "imagestore.ledger.load",
			Kind: domain.KindImageDownload,
			Path: path,
			Err:  fmt.Errorf("corrupt ledger: %w", err),
		}
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Save writes the ids as a sorted JSON array, replacing the file atomically.
func (l *Ledger) Save(dir string, ids map[string]struct{}) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.OpError{
			Op:   "imagestore.ledger.mkdir",
			Kind: domain.KindImageDownload,
			Path: dir,
			Err:  err,
		}
	}

	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Strings(list)

	b, err := json.Marshal(list)
	if err != nil {
		return &domain.OpError{
			Op:   "imagestore.ledger.marshal",
			Kind: domain.KindImageDownload,
			Err:  err,
		}
	}

	path := filepath.Join(dir, l.file)
	if err := renameio.WriteFile(path, b, 0o644); err != nil {
		return &domain.OpError{
			Op:   "imagestore.ledger.save",
			Kind: domain.KindImageDownload,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
