// Package screen defines what the router needs from a TUI screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/planbook/internal/ui/layout"
)

// Screen is one page of the TUI. View renders the area between the
// header and footer; Title labels it in the header.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BusyReporter is implemented by screens that must not be left while
// work they started is still running.
type BusyReporter interface {
	Busy() bool
}
