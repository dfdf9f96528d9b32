package ports

import (
	"context"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// GroupSource reads groups and message pages from a chat backend (e.g., the GroupMe API).
type GroupSource interface {
	ListGroups(ctx context.Context) ([]domain.Group, error)
	// ListMessages returns up to limit messages older than beforeID, newest first.
	// An empty beforeID starts from the most recent message. An empty page means
	// there is nothing older.
	ListMessages(ctx context.Context, groupID, beforeID string, limit int) ([]domain.Message, error)
}
