// Package tui is the interactive group picker.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

var errCancelled = errors.New("selection cancelled")

type screen int

const (
	screenLoading screen = iota
	screenPick
	screenError
)

type groupItem struct {
	index int
	group domain.Group
}

func (g groupItem) Title() string       { return clampString(g.group.Name, 60) }
func (g groupItem) Description() string { return groupDescription(g.index, g.group) }
func (g groupItem) FilterValue() string { return g.group.Name }

type model struct {
	ctx   context.Context
	theme Theme
	deps  Deps

	scr     screen
	spin    spinner.Model
	list    list.Model
	err     error
	chosen  *domain.Group
	aborted bool
}

// PickGroup loads the groups and lets the user choose one. Quitting without a
// choice returns a group_selection error; ctrl+c returns context.Canceled.
func PickGroup(ctx context.Context, deps Deps) (domain.Group, error) {
	m := newModel(ctx, deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Group{}, ctxErr
	}
	if err != nil {
		return domain.Group{}, &domain.OpError{Op: "tui.pick_group", Kind: domain.KindExecution, Err: err}
	}

	sm, ok := final.(safeModel)
	if !ok {
		return domain.Group{}, &domain.OpError{Op: "tui.pick_group", Kind: domain.KindExecution, Err: errors.New("unexpected model")}
	}
	return sm.m.result()
}

func newModel(ctx context.Context, deps Deps) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a group"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		ctx:   ctx,
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenLoading,
		spin:  sp,
		list:  l,
	}
}

func (m model) result() (domain.Group, error) {
	if m.chosen != nil {
		return *m.chosen, nil
	}
	if m.aborted {
		return domain.Group{}, context.Canceled
	}
	if m.err != nil {
		return domain.Group{}, m.err
	}
	return domain.Group{}, &domain.OpError{
		Op:   "tui.pick_group",
		Kind: domain.KindGroupSelection,
		Err:  fmt.Errorf("%w: %w", domain.ErrInvalidSelection, errCancelled),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, cmdLoadGroups(m.ctx, m.deps))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case groupsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.scr = screenError
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.groups))
		for i, g := range msg.groups {
			items = append(items, groupItem{index: i, group: g})
		}
		m.scr = screenPick
		return m, m.list.SetItems(items)

	case spinner.TickMsg:
		if m.scr != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.scr == screenPick && m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			if m.scr != screenPick {
				return m, nil
			}
			it, ok := m.list.SelectedItem().(groupItem)
			if !ok {
				return m, nil
			}
			g := it.group
			m.chosen = &g
			return m, tea.Quit
		}
	}

	if m.scr == screenPick {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("gmscraper") + "\n" +
		m.theme.Subtitle.Render("Scan a GroupMe chat for aggressive messages and images") + "\n"

	switch m.scr {
	case screenLoading:
		return wrap.Render(header + "\n" + m.spin.View() + " Loading groups…")

	case screenPick:
		help := m.theme.Help.Render("↑/↓ navigate • enter select • / filter • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.list.View()) + "\n" + help)

	case screenError:
		card := m.theme.Card.Render(
			m.theme.Error.Render(userMessage(m.err)) + "\n\n" + m.theme.Help.Render("q quit"),
		)
		return wrap.Render(header + "\n" + card)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
