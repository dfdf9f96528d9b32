package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

// safeModel keeps a panic in the picker from leaving the terminal in the alt
// screen: the panic is logged and the picker switches to its error screen, so
// PickGroup returns an error instead of crashing the scan.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.picker.update",
				"screen", int(s.m.scr),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)

			s.m.err = &domain.OpError{Op: "tui.pick_group", Kind: domain.KindExecution, Err: fmt.Errorf("panic: %v", r)}
			s.m.scr = screenError
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.m.Update(msg)
	if mm, ok := inner.(model); ok {
		s.m = mm
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.picker.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = "The group picker failed (see logs)"
		}
	}()
	return s.m.View()
}

var _ tea.Model = (*safeModel)(nil)
