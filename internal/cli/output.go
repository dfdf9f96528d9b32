package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/logger"
	"github.com/aalvaropc/gmscraper/internal/usecase"
)

// errReported marks an error already shown to the user.
var errReported = errors.New("error reported")

func checkFormat(format string) error {
	switch format {
	case "pretty", "", "json":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printGroups(w io.Writer, groups []domain.Group, format string) error {
	switch format {
	case "json":
		type row struct {
			Index       int    `json:"index"`
			ID          string `json:"id"`
			Name        string `json:"name"`
			MemberCount int    `json:"member_count"`
		}
		rows := make([]row, 0, len(groups))
		for i, g := range groups {
			rows = append(rows, row{Index: i, ID: g.ID, Name: g.Name, MemberCount: g.MemberCount})
		}
		return writeJSON(w, rows)
	case "pretty", "":
		printGroupList(w, groups)
		return nil
	default:
		return checkFormat(format)
	}
}

func printGroupList(w io.Writer, groups []domain.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "(no groups found)")
		return
	}
	fmt.Fprintln(w, "Available Group Chats:")
	for i, g := range groups {
		fmt.Fprintf(w, "  [%d] %s (%d members)\n", i, g.Name, g.MemberCount)
	}
}

// printFlagged prints the count and up to limit messages as "- name: text".
func printFlagged(w io.Writer, flagged []domain.Message, limit int) {
	fmt.Fprintf(w, "Found %d aggressive messages.\n", len(flagged))
	for i, m := range flagged {
		if i >= limit {
			fmt.Fprintf(w, "  ... and %d more\n", len(flagged)-limit)
			break
		}
		fmt.Fprintf(w, "- %s: %s\n", m.Name, m.Text)
	}
}

func printDownload(w io.Writer, s domain.DownloadSummary) {
	fmt.Fprintf(w, "Downloaded %d new images to '%s'", s.New, s.Dir)
	if s.Bytes > 0 {
		fmt.Fprintf(w, " (%s)", humanize.Bytes(uint64(s.Bytes)))
	}
	fmt.Fprintln(w)
	if s.Skipped > 0 || s.Failed > 0 {
		fmt.Fprintf(w, "  skipped: %d already downloaded, failed: %d (see logs)\n", s.Skipped, s.Failed)
	}
}

func printScan(w io.Writer, res usecase.ScanResult, format string, preview int) error {
	switch format {
	case "json":
		return writeJSON(w, map[string]any{
			"report_id": res.ReportID,
			"report":    res.Report,
		})
	case "pretty", "":
		printPrettyScan(w, res, preview)
		return nil
	default:
		return checkFormat(format)
	}
}

func printPrettyScan(w io.Writer, res usecase.ScanResult, preview int) {
	r := res.Report
	total := r.EndedAt.Sub(r.StartedAt)
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Group:      %s (%s)\n", r.GroupName, r.GroupID)
	fmt.Fprintf(w, "Classifier: %s\n", r.Classifier)
	fmt.Fprintf(w, "Messages:   %s\n", humanize.Comma(int64(r.MessagesScanned)))
	fmt.Fprintf(w, "Started:    %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:   %s\n", total.Round(time.Millisecond))
	if res.ReportID != "" {
		fmt.Fprintf(w, "Report:     %s\n", res.ReportID)
	}
	fmt.Fprintln(w)

	printFlagged(w, res.Flagged, preview)
	if r.Images != nil {
		fmt.Fprintln(w)
		printDownload(w, *r.Images)
	}
}

func printReports(w io.Writer, refs []domain.ReportRef) {
	if len(refs) == 0 {
		fmt.Fprintln(w, "(no reports found)")
		return
	}
	for _, r := range refs {
		when := "unknown time"
		if !r.StartedAt.IsZero() {
			when = humanize.Time(r.StartedAt)
		}
		name := r.GroupName
		if strings.TrimSpace(name) == "" {
			name = "-"
		}
		fmt.Fprintf(w, "- %s  %s  (%s)\n", r.ID, name, when)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var kindLabels = map[domain.ErrorKind]string{
	domain.KindTokenMissing:       "GroupMe token is missing or was rejected (set GROUPME_TOKEN)",
	domain.KindGroupSelection:     "Group selection failed",
	domain.KindMessageFetch:       "Failed to fetch messages",
	domain.KindAggressionAnalysis: "Aggression analysis failed",
	domain.KindImageDownload:      "Image download failed",
	domain.KindOpenAIService:      "OpenAI service error",
}

// printLogHint points at the log file when one is open.
func printLogHint(w io.Writer) {
	if logger.IsReady() != nil {
		return
	}
	fmt.Fprintf(w, "Details in %s\n", logger.Path())
}

// describeError renders a scraper error for the terminal: a label for its kind
// and the cause behind the innermost operation.
func describeError(err error) string {
	label, ok := kindLabels[domain.KindOf(err)]
	if !ok {
		return err.Error()
	}

	var innermost *domain.OpError
	for e := err; e != nil; e = errors.Unwrap(e) {
		if oe, ok := e.(*domain.OpError); ok {
			innermost = oe
		}
	}

	cause := err
	if innermost != nil && innermost.Err != nil {
		cause = innermost.Err
	}
	return label + ": " + cause.Error()
}
