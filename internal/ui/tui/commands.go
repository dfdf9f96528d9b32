package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

func cmdLoadGroups(ctx context.Context, deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Groups == nil {
			return groupsLoadedMsg{err: errors.New("group lister is nil")}
		}
		groups, err := deps.Groups.Execute(ctx)
		return groupsLoadedMsg{groups: groups, err: err}
	}
}
