package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "gmscraper.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("expected timeout 10s, got %s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 5 {
		t.Fatalf("expected retries 5, got %d", cfg.API.Retries)
	}
	if cfg.Scan.MaxMessages != 500 || cfg.Scan.PageSize != 50 {
		t.Fatalf("unexpected scan config: %+v", cfg.Scan)
	}
	if cfg.Aggression.Classifier != domain.ClassifierOpenAI {
		t.Fatalf("expected openai classifier, got %q", cfg.Aggression.Classifier)
	}
	if len(cfg.Aggression.Words) != 2 || cfg.Aggression.Words[0] != "jerk" {
		t.Fatalf("unexpected words: %v", cfg.Aggression.Words)
	}
	if cfg.Downloads.Workers != 8 {
		t.Fatalf("expected 8 workers, got %d", cfg.Downloads.Workers)
	}
	if cfg.Paths.DownloadDir != "media" {
		t.Fatalf("expected download dir media, got %q", cfg.Paths.DownloadDir)
	}
	if cfg.Masking.Enabled {
		t.Fatalf("expected masking disabled")
	}

	// Unset values keep their defaults.
	if cfg.Paths.ReportsDir != "reports" {
		t.Fatalf("expected default reports dir, got %q", cfg.Paths.ReportsDir)
	}
	if cfg.API.BaseURL != "https://api.groupme.com/v3" {
		t.Fatalf("expected default base url, got %q", cfg.API.BaseURL)
	}
	if cfg.Scan.PreviewLimit != 10 {
		t.Fatalf("expected default preview limit, got %d", cfg.Scan.PreviewLimit)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join("testdata", "gmscraper_invalid.yaml")
	_, err := LoadFile(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "scan.page_size") {
		t.Fatalf("expected field in error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if cfg.Scan.MaxMessages != 10000 {
		t.Fatalf("expected defaults, got %+v", cfg.Scan)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("gmscraper: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
