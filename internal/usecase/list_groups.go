package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

type ListGroups struct {
	source ports.GroupSource
}

func NewListGroups(source ports.GroupSource) *ListGroups {
	return &ListGroups{source: source}
}

func (uc *ListGroups) Execute(ctx context.Context) ([]domain.Group, error) {
	groups, err := uc.source.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	return groups, nil
}

// SelectGroup picks a group by zero-based index, as printed by the group list.
// An input that is not an index is matched against group ids.
func SelectGroup(groups []domain.Group, input string) (domain.Group, error) {
	in := strings.TrimSpace(input)

	if idx, err := strconv.Atoi(in); err == nil {
		if idx >= 0 && idx < len(groups) {
			return groups[idx], nil
		}
		for _, g := range groups {
			if g.ID == in {
				return g, nil
			}
		}
		return domain.Group{}, &domain.OpError{
			Op:   "usecase.select_group",
			Kind: domain.KindGroupSelection,
			Err:  fmt.Errorf("%w: index %d out of range (0-%d)", domain.ErrInvalidSelection, idx, len(groups)-1),
		}
	}

	if in != "" {
		for _, g := range groups {
			if g.ID == in {
				return g, nil
			}
		}
	}

	return domain.Group{}, &domain.OpError{
		Op:   "usecase.select_group",
		Kind: domain.KindGroupSelection,
		Err:  fmt.Errorf("%w: %q", domain.ErrInvalidSelection, in),
	}
}
