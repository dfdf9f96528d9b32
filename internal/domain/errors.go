package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid config")
	ErrTokenMissing     = errors.New("missing GroupMe token")
	ErrInvalidSelection = errors.New("invalid group selection")
	ErrInvalidDate      = errors.New("invalid date")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindInvalidConfig      ErrorKind = "invalid_config"
	KindTokenMissing       ErrorKind = "token_missing"
	KindGroupSelection     ErrorKind = "group_selection"
	KindMessageFetch       ErrorKind = "message_fetch"
	KindAggressionAnalysis ErrorKind = "aggression_analysis"
	KindImageDownload      ErrorKind = "image_download"
	KindOpenAIService      ErrorKind = "openai_service"
	KindExecution          ErrorKind = "execution"
)

// scraperKinds are the kinds the interactive flow reports to the user
// instead of failing with a usage error.
var scraperKinds = map[ErrorKind]bool{
	KindTokenMissing:       true,
	KindGroupSelection:     true,
	KindMessageFetch:       true,
	KindAggressionAnalysis: true,
	KindImageDownload:      true,
	KindOpenAIService:      true,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path or URL
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
// The outermost OpError decides the kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError, or KindExecution.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}

// IsScraperError reports whether err belongs to the scraper error family
// (token, selection, fetch, analysis, download, OpenAI).
func IsScraperError(err error) bool {
	var oe *OpError
	if !errors.As(err, &oe) {
		return false
	}
	return scraperKinds[oe.Kind]
}
