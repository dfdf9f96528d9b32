package tui

import (
	"errors"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return "Unexpected error (see logs)"
	}

	switch oe.Kind {
	case domain.KindTokenMissing:
		return "GroupMe token missing or rejected (set GROUPME_TOKEN)"
	case domain.KindNotFound:
		return "Not found"
	case domain.KindMessageFetch:
		return "Could not reach GroupMe (see logs)"
	case domain.KindExecution:
		if errors.Is(err, errCancelled) {
			return "Cancelled"
		}
		return "Request aborted"
	default:
		return "Unexpected error (see logs)"
	}
}
