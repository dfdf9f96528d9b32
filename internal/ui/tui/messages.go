package tui

import "github.com/aalvaropc/gmscraper/internal/domain"

type groupsLoadedMsg struct {
	groups []domain.Group
	err    error
}
