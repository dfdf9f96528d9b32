package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

type FetchMessages struct {
	source      ports.GroupSource
	pageSize    int
	maxMessages int
}

func NewFetchMessages(source ports.GroupSource, cfg domain.ScanConfig) *FetchMessages {
	def := domain.DefaultConfig().Scan
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = def.MaxMessages
	}
	return &FetchMessages{
		source:      source,
		pageSize:    cfg.PageSize,
		maxMessages: cfg.MaxMessages,
	}
}

// Execute pages backwards through a group's history, newest first, until the
// history is exhausted or maxMessages have been collected.
func (uc *FetchMessages) Execute(ctx context.Context, groupID string) ([]domain.Message, error) {
	out := make([]domain.Message, 0, min(uc.maxMessages, 1024))
	beforeID := ""

	for len(out) < uc.maxMessages {
		if err := ctx.Err(); err != nil {
			return out, &domain.OpError{
				Op:   "usecase.fetch_messages",
				Kind: domain.KindExecution,
				Err:  err,
			}
		}

		page, err := uc.source.ListMessages(ctx, groupID, beforeID, uc.pageSize)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "usecase.fetch_messages",
				Kind: domain.KindMessageFetch,
				Err:  fmt.Errorf("failed to fetch messages: %w", err),
			}
		}
		if len(page) == 0 {
			break
		}

		last := page[len(page)-1].ID
		if beforeID != "" && last == beforeID {
			// The cursor did not move: this page was already collected.
			break
		}
		out = append(out, page...)
		if last == "" {
			break
		}
		beforeID = last
	}

	if len(out) > uc.maxMessages {
		out = out[:uc.maxMessages]
	}
	return out, nil
}
