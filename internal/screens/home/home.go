package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/router"
	"github.com/abhisek/planbook/internal/screen"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/screens/collection"
	"github.com/abhisek/planbook/internal/screens/form"
	"github.com/abhisek/planbook/internal/screens/preview"
	"github.com/abhisek/planbook/internal/ui/components"
	"github.com/abhisek/planbook/internal/ui/theme"
)

const title = "WEEKLY LESSON PLANS"

// HomeScreen is the main menu. It owns the form so unsubmitted edits
// survive leaving and re-entering it.
type HomeScreen struct {
	svc  actions.Services
	form *form.FormScreen
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(svc actions.Services) *HomeScreen {
	h := &HomeScreen{svc: svc, form: form.New(svc)}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	st := h.svc.Session.State()
	count := len(h.svc.Session.Plans())
	return []components.MenuItem{
		{Label: "New Lesson Plan", Action: func() tea.Cmd {
			return push(h.form)
		}},
		{Label: "Review Draft", Disabled: st.Draft == nil, Action: func() tea.Cmd {
			return push(preview.New(h.svc))
		}},
		{Label: fmt.Sprintf("Weekly Collection (%d)", count), Disabled: count == 0, Action: func() tea.Cmd {
			return push(collection.New(h.svc))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(actions.DraftAcceptedMsg); ok {
		h.form.SyncWeek()
	}

	h.menu.SetItems(h.items())
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.menu.SetItems(h.items())
	st := h.svc.Session.State()

	status := theme.Hint.Render("No draft waiting.")
	if st.Draft != nil {
		status = theme.Body.Render(fmt.Sprintf("Draft ready: week %d, %s.", st.Draft.Input.Week, st.Draft.Input.Subject))
	}
	if st.Generating {
		status = theme.Body.Render("Generating a lesson plan…")
	}

	next := theme.Hint.Render(fmt.Sprintf("Next: %s, %s, week %d", st.Form.Subject, st.Form.Term, st.Form.Week))

	sections := []string{
		theme.Title.Render(title),
		theme.Subtitle.Render(st.Form.SchoolName),
		"",
		status,
		next,
	}
	if banner := components.Banner(st.Banner, width); banner != "" {
		sections = append(sections, "", banner)
	}
	sections = append(sections, "", strings.TrimRight(h.menu.View(), "\n"))

	box := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
