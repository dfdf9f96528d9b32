package usecase

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

type DownloadImages struct {
	fetcher ports.ImageFetcher
	writer  ports.ImageWriter
	ledger  ports.DownloadLedger

	baseDir string
	suffix  string
	workers int
	log     *slog.Logger
}

type DownloadOption func(*DownloadImages)

func WithDownloadLogger(l *slog.Logger) DownloadOption {
	return func(uc *DownloadImages) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewDownloadImages(f ports.ImageFetcher, w ports.ImageWriter, l ports.DownloadLedger, cfg domain.Config, opts ...DownloadOption) *DownloadImages {
	def := domain.DefaultConfig()

	uc := &DownloadImages{
		fetcher: f,
		writer:  w,
		ledger:  l,
		baseDir: cfg.Paths.DownloadDir,
		suffix:  cfg.Downloads.ImageSuffix,
		workers: cfg.Downloads.Workers,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if uc.baseDir == "" {
		uc.baseDir = def.Paths.DownloadDir
	}
	if uc.suffix == "" {
		uc.suffix = def.Downloads.ImageSuffix
	}
	if uc.workers <= 0 {
		uc.workers = def.Downloads.Workers
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type imageJob struct {
	id  string
	url string
}

// Dir returns the directory images of a group are written to.
func (uc *DownloadImages) Dir(groupName string) string {
	return filepath.Join(uc.baseDir, domain.GroupDirName(groupName))
}

// Execute downloads image attachments of messages created inside r that are
// not in the group's ledger yet. A failed image is logged and skipped; the
// ledger is saved with whatever succeeded, even when ctx is cancelled.
func (uc *DownloadImages) Execute(ctx context.Context, msgs []domain.Message, groupName string, r domain.DateRange) (domain.DownloadSummary, error) {
	dir := uc.Dir(groupName)
	summary := domain.DownloadSummary{Dir: dir}

	seen, err := uc.ledger.Load(dir)
	if err != nil {
		return summary, err
	}

	queued := map[string]bool{}
	var jobs []imageJob
	for _, m := range msgs {
		if !r.Contains(m.CreatedAt) {
			continue
		}
		for _, img := range m.Images() {
			id := domain.ImageIDFromURL(img.URL)
			if id == "" {
				continue
			}
			if _, done := seen[id]; done || queued[id] {
				summary.Skipped++
				continue
			}
			queued[id] = true
			jobs = append(jobs, imageJob{id: id, url: img.URL})
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for _, j := range jobs {
		g.Go(func() error {
			data, err := uc.fetcher.Fetch(gctx, j.url)
			if err == nil {
				err = uc.writer.Write(dir, j.id+uc.suffix, data)
			}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				summary.Failed++
				uc.log.Warn("download.image.failed", "id", j.id, "url", j.url, "err", err)
				return nil
			}

			seen[j.id] = struct{}{}
			summary.New++
			summary.Bytes += int64(len(data))
			return nil
		})
	}

	waitErr := g.Wait()

	if err := uc.ledger.Save(dir, seen); err != nil {
		return summary, err
	}
	if waitErr != nil {
		return summary, &domain.OpError{
			Op:   "usecase.download_images",
			Kind: domain.KindImageDownload,
			Path: dir,
			Err:  waitErr,
		}
	}

	uc.log.Info("download.done",
		"dir", dir,
		"new", summary.New,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"bytes", summary.Bytes,
	)
	return summary, nil
}
