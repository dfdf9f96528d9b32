package ports

import "context"

// ImageFetcher downloads the bytes behind an image URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageWriter persists an image under a directory.
type ImageWriter interface {
	Write(dir, name string, data []byte) error
}

// DownloadLedger remembers which image ids were already downloaded into a directory.
type DownloadLedger interface {
	Load(dir string) (map[string]struct{}, error)
	Save(dir string, ids map[string]struct{}) error
}
