package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/logger"
	"github.com/aalvaropc/gmscraper/internal/infra/prompt"
	"github.com/aalvaropc/gmscraper/internal/infra/reportstore"
	"github.com/aalvaropc/gmscraper/internal/ports"
	"github.com/aalvaropc/gmscraper/internal/ui/tui"
	"github.com/aalvaropc/gmscraper/internal/usecase"
)

// --- fakes ---

type fakeSource struct {
	groups   []domain.Group
	messages []domain.Message
}

func (f *fakeSource) ListGroups(context.Context) ([]domain.Group, error) {
	return f.groups, nil
}

func (f *fakeSource) ListMessages(_ context.Context, _ string, beforeID string, _ int) ([]domain.Message, error) {
	if beforeID != "" {
		return nil, nil
	}
	return f.messages, nil
}

type staticToken struct {
	token string
	err   error
}

func (s staticToken) Token(context.Context) (string, error) { return s.token, s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(t *testing.T, ws *workspaceCtx, input string, src *fakeSource) (*interactive, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &interactive{
		ws:       ws,
		tokens:   staticToken{token: "tok"},
		prompter: prompt.NewLine(strings.NewReader(input), &out),
		out:      &out,
		log:      discardLogger(),
		loc:      time.UTC,
		save:     true,
		newSource: func(string) ports.GroupSource {
			return src
		},
		pick: func(context.Context, tui.Deps) (domain.Group, error) {
			return src.groups[0], nil
		},
	}, &out
}

func tempWorkspace(t *testing.T) *workspaceCtx {
	t.Helper()
	return &workspaceCtx{root: t.TempDir(), found: true, cfg: domain.DefaultConfig()}
}

// --- interactive flow ---

func TestInteractive_FullFlow(t *testing.T) {
	ws := tempWorkspace(t)
	at := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{
		groups: []domain.Group{
			{ID: "10", Name: "Family", MemberCount: 3},
			{ID: "20", Name: "Book Club", MemberCount: 7},
		},
		messages: []domain.Message{
			{ID: "3", Name: "ann", Text: "you are dumb", CreatedAt: at},
			{ID: "2", Name: "bob", Text: "see you", CreatedAt: at},
		},
	}

	s, out := newSession(t, ws, "1\n2024-01-01\n2024-01-31\n", src)
	if err := s.run(context.Background()); err != nil {
		t.Fatalf("run error: %v\n%s", err, out.String())
	}

	got := out.String()
	wants := []string{
		"[1] Book Club (7 members)",
		"Enter the index of the group to analyze: ",
		"Scanning for aggressive messages...",
		"Found 1 aggressive messages.",
		"- ann: you are dumb",
		"Downloading images...",
		"Downloaded 0 new images to '" + filepath.Join(ws.root, "downloads", "Book_Club") + "'",
		"Report saved: ",
		"Done.",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Fatalf("expected output to contain %q, got:\n%s", w, got)
		}
	}

	refs, err := ws.reportStore().ListReports()
	if err != nil || len(refs) != 1 {
		t.Fatalf("expected one saved report, got %v (%v)", refs, err)
	}
	if refs[0].GroupName != "Book Club" {
		t.Fatalf("unexpected report group %q", refs[0].GroupName)
	}
}

func TestInteractive_TUIPicker(t *testing.T) {
	ws := tempWorkspace(t)
	src := &fakeSource{groups: []domain.Group{{ID: "10", Name: "Family"}}}

	s, out := newSession(t, ws, "2024-01-01\n2024-01-02\n", src)
	s.useTUI = true
	s.save = false

	if err := s.run(context.Background()); err != nil {
		t.Fatalf("run error: %v\n%s", err, out.String())
	}
	if strings.Contains(out.String(), "Enter the index") {
		t.Fatalf("expected no index prompt with the picker, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Report saved") {
		t.Fatalf("expected no report with save disabled")
	}
}

func TestInteractive_ScraperErrorIsReported(t *testing.T) {
	ws := tempWorkspace(t)
	s, out := newSession(t, ws, "", &fakeSource{})
	s.tokens = staticToken{err: &domain.OpError{
		Op:   "tokensource.token",
		Kind: domain.KindTokenMissing,
		Err:  domain.ErrTokenMissing,
	}}

	err := s.run(context.Background())
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out.String(), "Error: GroupMe token is missing") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestInteractive_BadIndex(t *testing.T) {
	ws := tempWorkspace(t)
	src := &fakeSource{groups: []domain.Group{{ID: "10", Name: "Family"}}}

	s, out := newSession(t, ws, "7\n", src)
	err := s.run(context.Background())
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out.String(), "Error: Group selection failed") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestInteractive_NoGroups(t *testing.T) {
	s, out := newSession(t, tempWorkspace(t), "", &fakeSource{})
	if err := s.run(context.Background()); !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out.String(), "no groups available") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestInteractive_Cancelled(t *testing.T) {
	s, out := newSession(t, tempWorkspace(t), "0\n", &fakeSource{groups: []domain.Group{{ID: "1"}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.run(ctx); !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out.String(), "Aborted by user.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func runWithIdleStdin(t *testing.T, s *interactive, out *bytes.Buffer, answers string) error {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	s.prompter = prompt.NewLine(pr, out)

	if answers != "" {
		go func() { _, _ = pw.Write([]byte(answers)) }()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("run still blocked on a prompt after cancel")
		return nil
	}
}

func TestInteractive_CancelAtIndexPrompt(t *testing.T) {
	s, out := newSession(t, tempWorkspace(t), "", &fakeSource{groups: []domain.Group{{ID: "1", Name: "A"}}})

	err := runWithIdleStdin(t, s, out, "")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out.String(), "Aborted by user.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Error:") {
		t.Fatalf("abort must not be reported as an error:\n%s", out.String())
	}
}

func TestInteractive_CancelAtDatePrompt(t *testing.T) {
	src := &fakeSource{
		groups:   []domain.Group{{ID: "1", Name: "A"}},
		messages: []domain.Message{{ID: "1", Name: "ann", Text: "hi"}},
	}
	s, out := newSession(t, tempWorkspace(t), "", src)
	s.save = false

	err := runWithIdleStdin(t, s, out, "0\n")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Aborted by user.") || strings.Contains(got, "Error:") {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if strings.Contains(got, "Done.") {
		t.Fatalf("flow must stop at the date prompt:\n%s", got)
	}
}

func TestInteractive_PickerCtrlCAborts(t *testing.T) {
	s, out := newSession(t, tempWorkspace(t), "", &fakeSource{groups: []domain.Group{{ID: "1"}}})
	s.useTUI = true
	s.pick = func(context.Context, tui.Deps) (domain.Group, error) {
		return domain.Group{}, context.Canceled
	}

	if err := s.run(context.Background()); !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out.String(), "Aborted by user.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

// --- output helpers ---

func TestPrintFlagged_RespectsPreviewLimit(t *testing.T) {
	var buf bytes.Buffer
	msgs := make([]domain.Message, 12)
	for i := range msgs {
		msgs[i] = domain.Message{Name: fmt.Sprintf("u%d", i), Text: "hate"}
	}

	printFlagged(&buf, msgs, 10)

	out := buf.String()
	if !strings.HasPrefix(out, "Found 12 aggressive messages.\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if strings.Count(out, "\n- ") != 10 {
		t.Fatalf("expected 10 preview lines, got:\n%s", out)
	}
	if !strings.Contains(out, "... and 2 more") {
		t.Fatalf("expected remainder line, got:\n%s", out)
	}
}

func TestPrintDownload_HumanizesBytes(t *testing.T) {
	var buf bytes.Buffer
	printDownload(&buf, domain.DownloadSummary{Dir: "downloads/g", New: 2, Bytes: 2_500_000, Failed: 1})

	out := buf.String()
	if !strings.Contains(out, "Downloaded 2 new images to 'downloads/g' (2.5 MB)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "failed: 1") {
		t.Fatalf("expected failure count, got:\n%s", out)
	}
}

func TestPrintGroups_JSON(t *testing.T) {
	var buf bytes.Buffer
	groups := []domain.Group{{ID: "1", Name: "A", MemberCount: 2}}
	if err := printGroups(&buf, groups, "json"); err != nil {
		t.Fatalf("printGroups error: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(rows) != 1 || rows[0]["id"] != "1" || rows[0]["index"] != float64(0) {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestPrintGroups_UnknownFormat(t *testing.T) {
	if err := printGroups(io.Discard, nil, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPrintScan_JSON(t *testing.T) {
	var buf bytes.Buffer
	res := usecase.ScanResult{
		ReportID: "r1",
		Report:   domain.ScanReport{ID: "scan-1", GroupName: "G", Aggressive: []domain.FlaggedMessage{}},
	}
	if err := printScan(&buf, res, "json", 10); err != nil {
		t.Fatalf("printScan error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload["report_id"] != "r1" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestPrintScan_Pretty(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := usecase.ScanResult{
		ReportID: "r1",
		Report: domain.ScanReport{
			GroupID: "9", GroupName: "G", Classifier: domain.ClassifierKeyword,
			StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond),
			MessagesScanned: 12345,
			Images:          &domain.DownloadSummary{Dir: "d", New: 1},
		},
		Flagged: []domain.Message{{Name: "x", Text: "dumb"}},
	}
	if err := printScan(&buf, res, "", 10); err != nil {
		t.Fatalf("printScan error: %v", err)
	}
	out := buf.String()
	for _, w := range []string{"Group:      G (9)", "Messages:   12,345", "Duration:   1.5s", "Report:     r1", "- x: dumb", "Downloaded 1 new images to 'd'"} {
		if !strings.Contains(out, w) {
			t.Fatalf("expected %q in:\n%s", w, out)
		}
	}
}

func TestPrintLogHint(t *testing.T) {
	var buf bytes.Buffer
	printLogHint(&buf)
	if buf.Len() != 0 {
		t.Fatalf("expected no hint without a log file, got %q", buf.String())
	}

	cleanup, err := logger.Setup(logger.Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("logger setup: %v", err)
	}
	defer func() { _ = cleanup() }()

	printLogHint(&buf)
	if got := buf.String(); got != "Details in "+logger.Path()+"\n" {
		t.Fatalf("unexpected hint %q", got)
	}
}

func TestDescribeError(t *testing.T) {
	inner := &domain.OpError{Op: "groupmeapi.messages", Kind: domain.KindTokenMissing, Err: errors.New("unexpected status 401")}
	err := &domain.OpError{
		Op:   "usecase.fetch_messages",
		Kind: domain.KindMessageFetch,
		Err:  fmt.Errorf("failed to fetch messages: %w", inner),
	}
	if got := describeError(err); got != "Failed to fetch messages: unexpected status 401" {
		t.Fatalf("unexpected description %q", got)
	}

	plain := errors.New("plain")
	if got := describeError(plain); got != "plain" {
		t.Fatalf("unexpected description %q", got)
	}
}

// --- scan flags ---

func TestScanFlags_DateRange(t *testing.T) {
	r, err := scanFlags{}.dateRange(time.UTC)
	if err != nil || r != nil {
		t.Fatalf("expected no range, got %v %v", r, err)
	}

	if _, err := (scanFlags{start: "2024-01-01"}).dateRange(time.UTC); err == nil {
		t.Fatal("expected error when only --start is set")
	}

	r, err = scanFlags{start: "2024-01-01", end: "2024-01-02"}.dateRange(time.UTC)
	if err != nil || r == nil {
		t.Fatalf("expected range, got %v %v", r, err)
	}
	if !r.Contains(time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)) {
		t.Fatal("expected end day to be inclusive")
	}

	if _, err := (scanFlags{start: "2024-02-01", end: "2024-01-01"}).dateRange(time.UTC); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

// --- workspace wiring ---

func TestWorkspace_Classifier(t *testing.T) {
	ws := tempWorkspace(t)

	cl, err := ws.classifier("")
	if err != nil || cl.Name() != "keyword" {
		t.Fatalf("expected keyword classifier, got %v %v", cl, err)
	}

	t.Setenv(openAIKeyEnv, "")
	if _, err := ws.classifier(domain.ClassifierOpenAI); !domain.IsKind(err, domain.KindOpenAIService) {
		t.Fatalf("expected openai_service error without key, got %v", err)
	}

	if _, err := ws.classifier("regex"); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadWorkspace_ExplicitConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gmscraper.yaml")
	if err := os.WriteFile(path, []byte("gmscraper:\n  paths:\n    reports_dir: out\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws, err := loadWorkspace(path)
	if err != nil {
		t.Fatalf("loadWorkspace error: %v", err)
	}
	if !ws.found || ws.root != root {
		t.Fatalf("unexpected workspace %+v", ws)
	}
	if ws.cfg.Paths.ReportsDir != "out" {
		t.Fatalf("expected config applied, got %q", ws.cfg.Paths.ReportsDir)
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"groups", "scan", "reports", "init", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
	for _, flag := range []string{"debug", "config"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
	if cmd.Flags().Lookup("tui") == nil {
		t.Error("expected --tui flag on root command")
	}
}

func TestScanCmd_Flags(t *testing.T) {
	cmd := scanCmd(&rootOptions{})
	if cmd.Use != "scan" {
		t.Errorf("expected Use=scan, got %q", cmd.Use)
	}
	for _, flag := range []string{"group", "start", "end", "classifier", "no-images", "no-save", "format"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on scan command", flag)
		}
	}
}

func TestInitCmd_CreatesWorkspace(t *testing.T) {
	tmp := t.TempDir()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--path", tmp})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmp, "gmscraper.yaml")); err != nil {
		t.Fatalf("expected gmscraper.yaml: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized gmscraper workspace") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "gmscraper ") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestReportsCmds(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "gmscraper.yaml")
	if err := os.WriteFile(cfgPath, []byte("gmscraper: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := reportstore.NewJSONStore(root, domain.DefaultConfig(), reportstore.WithIndex(true))
	id, err := store.SaveReport(domain.ScanReport{
		ID:        "scan-1",
		GroupName: "Book Club",
		StartedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Aggressive: []domain.FlaggedMessage{
			{MessageID: "1", Name: "ann", Text: "shut up"},
		},
	})
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	run := func(args ...string) string {
		t.Helper()
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if out := run("reports", "list"); !strings.Contains(out, id) || !strings.Contains(out, "Book Club") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	if out := run("reports", "show", id, "--query", "$.aggressive[0].name"); strings.TrimSpace(out) != "ann" {
		t.Fatalf("unexpected query output:\n%s", out)
	}
	if out := run("reports", "show", id); !strings.Contains(out, `"group_name": "Book Club"`) {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}
