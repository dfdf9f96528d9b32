package imagestore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/httpclient"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

// Fetcher downloads image bytes over HTTP.
type Fetcher struct {
	exec *httpclient.Executor
}

var _ ports.ImageFetcher = (*Fetcher)(nil)

func NewFetcher(exec *httpclient.Executor) *Fetcher {
	if exec == nil {
		exec = httpclient.NewExecutor()
	}
	return &Fetcher{exec: exec}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.exec.Get(ctx, url)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "imagestore.fetch",
			Kind: domain.KindImageDownload,
			Path: url,
			Err:  err,
		}
	}
	if resp.Status != http.StatusOK {
		return nil, &domain.OpError{
			Op:   "imagestore.fetch",
			Kind: domain.KindImageDownload,
			Path: url,
			Err:  fmt.Errorf("unexpected status %d", resp.Status),
		}
	}
	if resp.Truncated {
		return nil, &domain.OpError{
			Op:   "imagestore.fetch",
			Kind: domain.KindImageDownload,
			Path: url,
			Err:  fmt.Errorf("image larger than %d bytes", len(resp.BodyBytes)),
		}
	}
	return resp.BodyBytes, nil
}
