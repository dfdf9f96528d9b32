package imagestore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

// Writer stores images atomically so a crash never leaves half-written files.
type Writer struct{}

var _ ports.ImageWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Write(dir, name string, data []byte) error {
	if strings.ContainsAny(name, `/\`) || name == "" || name == "." || name == ".." {
		return &domain.OpError{
			Op:   "imagestore.write",
			Kind: domain.KindImageDownload,
			Path: name,
			Err:  domain.ErrInvalidConfig,
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.OpError{
			Op:   "imagestore.mkdir",
			Kind: domain.KindImageDownload,
			Path: dir,
			Err:  err,
		}
	}

	path := filepath.Join(dir, name)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return &domain.OpError{
			Op:   "imagestore.write",
			Kind: domain.KindImageDownload,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
