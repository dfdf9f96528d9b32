package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// Apply copies every set value from y onto cfg, validating as it goes.
func Apply(path string, cfg domain.Config, y YAMLConfig) (domain.Config, error) {
	g := y.GMScraper

	if s := strings.TrimSpace(g.API.BaseURL); s != "" {
		cfg.API.BaseURL = strings.TrimRight(s, "/")
	}
	if s := strings.TrimSpace(g.API.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "api.timeout", fmt.Sprintf("invalid duration %q", s))
		}
		cfg.API.Timeout = d
	}
	if g.API.RateLimit != nil {
		if *g.API.RateLimit < 0 {
			return cfg, invalidField(path, "api.rate_limit", "must be >= 0")
		}
		cfg.API.RateLimit = *g.API.RateLimit
	}
	if err := setPositive(path, "api.burst", g.API.Burst, &cfg.API.Burst); err != nil {
		return cfg, err
	}
	if g.API.Retries != nil {
		if *g.API.Retries < 0 {
			return cfg, invalidField(path, "api.retries", "must be >= 0")
		}
		cfg.API.Retries = *g.API.Retries
	}

	if err := setPositive(path, "scan.max_messages", g.Scan.MaxMessages, &cfg.Scan.MaxMessages); err != nil {
		return cfg, err
	}
	if err := setPositive(path, "scan.page_size", g.Scan.PageSize, &cfg.Scan.PageSize); err != nil {
		return cfg, err
	}
	if cfg.Scan.PageSize > 100 {
		return cfg, invalidField(path, "scan.page_size", "GroupMe allows at most 100 messages per page")
	}
	if g.Scan.PreviewLimit != nil {
		if *g.Scan.PreviewLimit < 0 {
			return cfg, invalidField(path, "scan.preview_limit", "must be >= 0")
		}
		cfg.Scan.PreviewLimit = *g.Scan.PreviewLimit
	}

	if s := strings.TrimSpace(g.Aggression.Classifier); s != "" {
		name, err := ParseClassifier(s)
		if err != nil {
			return cfg, invalidField(path, "aggression.classifier", err.Error())
		}
		cfg.Aggression.Classifier = name
	}
	if len(g.Aggression.Words) > 0 {
		cfg.Aggression.Words = append([]string(nil), g.Aggression.Words...)
	}
	if s := strings.TrimSpace(g.Aggression.OpenAIModel); s != "" {
		cfg.Aggression.OpenAIModel = s
	}

	if err := setPositive(path, "downloads.workers", g.Downloads.Workers, &cfg.Downloads.Workers); err != nil {
		return cfg, err
	}
	if g.Downloads.MaxBytes != nil {
		if *g.Downloads.MaxBytes <= 0 {
			return cfg, invalidField(path, "downloads.max_bytes", "must be > 0")
		}
		cfg.Downloads.MaxBytes = *g.Downloads.MaxBytes
	}
	if s := strings.TrimSpace(g.Downloads.ImageSuffix); s != "" {
		cfg.Downloads.ImageSuffix = s
	}
	if s := strings.TrimSpace(g.Downloads.LedgerFile); s != "" {
		if strings.ContainsAny(s, `/\`) {
			return cfg, invalidField(path, "downloads.ledger_file", "must be a file name")
		}
		cfg.Downloads.LedgerFile = s
	}

	setString(g.Paths.DownloadDir, &cfg.Paths.DownloadDir)
	setString(g.Paths.ReportsDir, &cfg.Paths.ReportsDir)
	setString(g.Paths.LogDir, &cfg.Paths.LogDir)
	setString(g.Paths.LogFile, &cfg.Paths.LogFile)

	if g.Logging.Debug != nil {
		cfg.Logging.Debug = *g.Logging.Debug
	}
	if g.Masking.Enabled != nil {
		cfg.Masking.Enabled = *g.Masking.Enabled
	}

	return cfg, nil
}

// ParseClassifier validates a classifier name.
func ParseClassifier(s string) (domain.ClassifierName, error) {
	switch n := domain.ClassifierName(strings.ToLower(strings.TrimSpace(s))); n {
	case domain.ClassifierKeyword, domain.ClassifierOpenAI:
		return n, nil
	default:
		return "", fmt.Errorf("unsupported classifier %q (want keyword or openai)", s)
	}
}

func setPositive(path, field string, in *int, out *int) error {
	if in == nil {
		return nil
	}
	if *in <= 0 {
		return invalidField(path, field, "must be > 0")
	}
	*out = *in
	return nil
}

func setString(in string, out *string) {
	if s := strings.TrimSpace(in); s != "" {
		*out = s
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
