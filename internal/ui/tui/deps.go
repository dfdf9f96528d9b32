package tui

import (
	"context"
	"log/slog"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// GroupLister loads the groups shown in the picker.
type GroupLister interface {
	Execute(ctx context.Context) ([]domain.Group, error)
}

type Deps struct {
	Groups GroupLister

	Logger *slog.Logger
}
