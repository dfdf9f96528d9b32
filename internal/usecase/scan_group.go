package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

// ScanRequest describes one scan.
type ScanRequest struct {
	Group domain.Group

	// Range limits image downloads. Nil skips downloads unless AfterAnalysis returns one.
	Range *domain.DateRange

	// AfterAnalysis runs once aggressive messages are known, before downloads.
	// It may return a date range (used when Range is nil), e.g. after asking the user.
	AfterAnalysis func(flagged []domain.Message) (*domain.DateRange, error)
}

// ScanResult is what a scan produced.
type ScanResult struct {
	Report   domain.ScanReport
	Messages []domain.Message
	Flagged  []domain.Message
	ReportID string
}

type ScanGroup struct {
	fetch      *FetchMessages
	find       *FindAggressive
	download   *DownloadImages
	store      ports.ReportStore
	classifier string

	now   func() time.Time
	newID func() string
}

type ScanOption func(*ScanGroup)

// WithScanClock overrides the clock (useful for tests).
func WithScanClock(now func() time.Time) ScanOption {
	return func(uc *ScanGroup) { uc.now = now }
}

// WithScanID overrides scan id generation (useful for tests).
func WithScanID(gen func() string) ScanOption {
	return func(uc *ScanGroup) { uc.newID = gen }
}

// NewScanGroup wires the scan steps. download and store may be nil.
func NewScanGroup(fetch *FetchMessages, find *FindAggressive, download *DownloadImages, store ports.ReportStore, opts ...ScanOption) *ScanGroup {
	uc := &ScanGroup{
		fetch:    fetch,
		find:     find,
		download: download,
		store:    store,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if find != nil && find.classifier != nil {
		uc.classifier = find.classifier.Name()
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *ScanGroup) Execute(ctx context.Context, req ScanRequest) (ScanResult, error) {
	res := ScanResult{
		Report: domain.ScanReport{
			ID:         uc.newID(),
			GroupID:    req.Group.ID,
			GroupName:  req.Group.Name,
			Classifier: domain.ClassifierName(uc.classifier),
			StartedAt:  uc.now(),
			Aggressive: []domain.FlaggedMessage{},
		},
	}

	msgs, err := uc.fetch.Execute(ctx, req.Group.ID)
	if err != nil {
		return res, err
	}
	res.Messages = msgs
	res.Report.MessagesScanned = len(msgs)

	flagged, err := uc.find.Execute(ctx, msgs)
	if err != nil {
		return res, err
	}
	res.Flagged = flagged
	for _, m := range flagged {
		res.Report.Aggressive = append(res.Report.Aggressive, domain.Flag(m))
	}

	rng := req.Range
	if req.AfterAnalysis != nil {
		r, err := req.AfterAnalysis(flagged)
		if err != nil {
			return res, err
		}
		if rng == nil {
			rng = r
		}
	}

	if rng != nil && uc.download != nil {
		res.Report.Range = &domain.ReportRange{Start: rng.Start, End: rng.End}
		summary, err := uc.download.Execute(ctx, msgs, req.Group.Name, *rng)
		res.Report.Images = &summary
		if err != nil {
			return res, err
		}
	}

	res.Report.EndedAt = uc.now()

	if uc.store != nil {
		id, err := uc.store.SaveReport(res.Report)
		if err != nil {
			return res, err
		}
		res.ReportID = id
	}

	return res, nil
}
