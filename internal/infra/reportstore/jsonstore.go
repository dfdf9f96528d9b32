package reportstore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

const defaultReportsDir = "reports"
const maskValue = "********"
const indexFile = "index.jsonl"

// secretPattern catches long opaque strings that look like access tokens or API keys.
var secretPattern = regexp.MustCompile(`\b(sk-[A-Za-z0-9_\-]{16,}|[A-Za-z0-9]{32,})\b`)

type JSONStore struct {
	rootDir        string
	reportsDirName string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: reports/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow sets the clock used for reports saved without a start time.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.ReportsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultReportsDir
	}

	s := &JSONStore{
		rootDir:        root,
		reportsDirName: dir,
		maskingEnabled: cfg.Masking.Enabled,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	if filepath.IsAbs(s.reportsDirName) {
		return s.reportsDirName
	}
	return filepath.Join(s.rootDir, s.reportsDirName)
}

func (s *JSONStore) SaveReport(report domain.ScanReport) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := report.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := report
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := slugify(report.GroupName)
	if slug == "" {
		slug = "scan"
	}

	base := fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug)
	id, path, err := uniqueID(dir, base)
	if err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.unique_id",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	if s.maskingEnabled {
		toSave = maskReport(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if err := renameio.WriteFile(path, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.write",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, domain.ReportRef{
			ID:        id,
			File:      filepath.Base(path),
			GroupName: report.GroupName,
			StartedAt: toSave.StartedAt,
		})
	}

	return id, nil
}

// ListReports reads the index when present, otherwise scans the directory.
// Refs are newest first; ids start with the scan timestamp.
func (s *JSONStore) ListReports() ([]domain.ReportRef, error) {
	dir := s.dir()

	refs, err := readIndex(filepath.Join(dir, indexFile))
	if err == nil {
		return newestFirst(refs), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, &domain.OpError{
			Op:   "reportstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.ReportRef{}, nil
		}
		return nil, &domain.OpError{
			Op:   "reportstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	out := make([]domain.ReportRef, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		out = append(out, domain.ReportRef{
			ID:   strings.TrimSuffix(e.Name(), ".json"),
			File: e.Name(),
		})
	}
	return newestFirst(out), nil
}

func newestFirst(refs []domain.ReportRef) []domain.ReportRef {
	if refs == nil {
		return []domain.ReportRef{}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].ID > refs[j].ID })
	return refs
}

// LoadReport returns the raw JSON of a saved report.
func (s *JSONStore) LoadReport(id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, &domain.OpError{
			Op:   "reportstore.load",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("invalid report id %q", id),
		}
	}

	path := filepath.Join(s.dir(), strings.TrimSuffix(id, ".json")+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, os.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{
			Op:   "reportstore.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}
	return b, nil
}

// uniqueID appends _2, _3, ... to base until no report file has that name.
func uniqueID(dir, base string) (string, string, error) {
	id := base
	for n := 2; ; n++ {
		path := filepath.Join(dir, id+".json")
		_, err := os.Stat(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return id, path, nil
		case err != nil:
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func (s *JSONStore) appendIndex(dir string, ref domain.ReportRef) error {
	line, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

func readIndex(path string) ([]domain.ReportRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []domain.ReportRef
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ref domain.ReportRef
		if err := json.Unmarshal([]byte(line), &ref); err != nil {
			continue
		}
		out = append(out, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// maskReport returns a masked copy (does NOT mutate the input).
func maskReport(r domain.ScanReport) domain.ScanReport {
	out := r
	out.Aggressive = make([]domain.FlaggedMessage, len(r.Aggressive))
	for i, m := range r.Aggressive {
		m.Text = secretPattern.ReplaceAllString(m.Text, maskValue)
		out.Aggressive[i] = m
	}
	if r.Images != nil {
		img := *r.Images
		out.Images = &img
	}
	return out
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
