package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// --- fakes shared by the use case tests ---

// fakeSource serves a fixed history (newest first) in before_id pages.
type fakeSource struct {
	groups   []domain.Group
	history  []domain.Message
	err      error
	failAt   int // call number (1-based) that fails with err; 0 means never
	calls    int
	limits   []int
	cursors  []string
	groupErr error
}

func (f *fakeSource) ListGroups(_ context.Context) ([]domain.Group, error) {
	return f.groups, f.groupErr
}

func (f *fakeSource) ListMessages(_ context.Context, _ string, beforeID string, limit int) ([]domain.Message, error) {
	f.calls++
	f.limits = append(f.limits, limit)
	f.cursors = append(f.cursors, beforeID)

	if f.err != nil && (f.failAt == 0 || f.failAt == f.calls) {
		return nil, f.err
	}

	start := 0
	if beforeID != "" {
		start = len(f.history)
		for i, m := range f.history {
			if m.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, len(f.history))
	if start >= end {
		return nil, nil
	}
	return f.history[start:end], nil
}

// history builds n messages with ids "m<n>" ... "m1", newest first.
func history(n int) []domain.Message {
	out := make([]domain.Message, 0, n)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := n; i >= 1; i-- {
		out = append(out, domain.Message{
			ID:        "m" + strconv.Itoa(i),
			GroupID:   "g1",
			Name:      "user",
			Text:      "hello " + strconv.Itoa(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

type stubClassifier struct {
	word string
	err  error
}

func (s stubClassifier) Name() string { return "stub" }

func (s stubClassifier) Classify(_ context.Context, text string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return strings.Contains(strings.ToLower(text), s.word), nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	fail  map[string]bool
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		data:  map[string][]byte{},
		fail:  map[string]bool{},
		calls: map[string]int{},
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.fail[url] {
		return nil, errors.New("boom")
	}
	if b, ok := f.data[url]; ok {
		return b, nil
	}
	return []byte("img:" + url), nil
}

type fakeWriter struct {
	mu      sync.Mutex
	written map[string][]byte
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{written: map[string][]byte{}}
}

func (w *fakeWriter) Write(dir, name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written[dir+"/"+name] = data
	return nil
}

type fakeLedger struct {
	initial map[string]struct{}
	saved   map[string]struct{}
	saves   int
	dir     string
}

func (l *fakeLedger) Load(dir string) (map[string]struct{}, error) {
	l.dir = dir
	out := map[string]struct{}{}
	for k := range l.initial {
		out[k] = struct{}{}
	}
	return out, nil
}

func (l *fakeLedger) Save(dir string, ids map[string]struct{}) error {
	l.dir = dir
	l.saves++
	l.saved = map[string]struct{}{}
	for k := range ids {
		l.saved[k] = struct{}{}
	}
	return nil
}

type fakeReportStore struct {
	saved bool
	last  domain.ScanReport
}

func (s *fakeReportStore) SaveReport(r domain.ScanReport) (string, error) {
	s.saved = true
	s.last = r
	return "report-123", nil
}

func (s *fakeReportStore) ListReports() ([]domain.ReportRef, error) { return nil, nil }

func (s *fakeReportStore) LoadReport(_ string) ([]byte, error) { return nil, domain.ErrNotFound }
