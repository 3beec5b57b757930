package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/planbook/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled entries are shown dimmed and
// skipped by the cursor.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	return m
}

// SetItems replaces the entries, keeping the cursor when its entry is
// still selectable.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	if !m.selectable(m.Selected) {
		m.Selected = -1
		m.move(1)
	}
}

func (m *Menu) selectable(i int) bool {
	return i >= 0 && i < len(m.Items) && !m.Items[i].Disabled
}

// move steps the cursor to the next selectable entry in direction dir.
// The cursor stays put at either end.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if m.selectable(i) {
			m.Selected = i
			return
		}
	}
	if m.Selected < 0 {
		m.Selected = 0
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if m.selectable(m.Selected) && m.Items[m.Selected].Action != nil {
			return m, m.Items[m.Selected].Action()
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
