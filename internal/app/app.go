// Package app hosts the terminal UI: a router of screens inside a frame
// with a header and footer.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/router"
	"github.com/abhisek/planbook/internal/screen"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/screens/home"
	"github.com/abhisek/planbook/internal/screens/welcome"
	"github.com/abhisek/planbook/internal/ui/layout"
	"github.com/abhisek/planbook/internal/workspace"
)

// Options holds the dependencies the TUI needs.
type Options struct {
	Services actions.Services
	Logger   *logging.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    actions.Services
	log    *logging.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel that opens on the splash screen and
// then settles on home.
func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return AppModel{
		router: router.New(welcome.New(func() screen.Screen {
			return home.New(opts.Services)
		})),
		svc:    opts.Services,
		log:    log.With("component", "tui"),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.BusyReporter); ok && b.Busy() {
				return m, nil
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case actions.BannerExpiredMsg:
		if m.svc.Session.State().Banner == msg.Banner {
			m.svc.Session.Dispatch(workspace.BannerCleared{})
		}

	case actions.GenerateDoneMsg:
		if msg.Err != nil {
			m.log.Warn("generation failed", "error", msg.Err)
		}

	case actions.ExportDoneMsg:
		if msg.Err != nil {
			m.log.Warn("export failed", "error", msg.Err)
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, len(m.svc.Session.Plans()), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
