// Package collection lists the accepted weekly plans, previews them as one
// combined document and exports the whole set.
package collection

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/screen"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/ui/components"
	"github.com/abhisek/planbook/internal/ui/layout"
	"github.com/abhisek/planbook/internal/ui/theme"
	"github.com/abhisek/planbook/internal/workspace"
)

// listRows caps how many plans are listed above the preview.
const listRows = 6

// CollectionScreen shows the weekly collection.
type CollectionScreen struct {
	svc       actions.Services
	plans     []lessonplan.SavedPlan
	cursor    int
	doc       components.DocView
	status    workspace.Banner
	exporting bool
}

var _ screen.Screen = (*CollectionScreen)(nil)

// New creates the collection screen from the session's current plans.
func New(svc actions.Services) *CollectionScreen {
	c := &CollectionScreen{svc: svc, doc: components.NewDocView()}
	c.reload()
	return c
}

func (c *CollectionScreen) reload() {
	c.plans = c.svc.Session.Plans()
	if c.cursor >= len(c.plans) {
		c.cursor = max(len(c.plans)-1, 0)
	}
	if len(c.plans) == 0 {
		c.doc.SetDocument(nil)
		return
	}
	c.doc.SetDocument(c.svc.Renderer.RenderCombined(c.plans))
}

func (c *CollectionScreen) Init() tea.Cmd {
	return nil
}

func (c *CollectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if c.cursor > 0 {
				c.cursor--
			}
			return c, nil
		case "down", "j":
			if c.cursor < len(c.plans)-1 {
				c.cursor++
			}
			return c, nil
		case "x", "delete":
			if len(c.plans) > 0 {
				c.svc.Session.Remove(c.plans[c.cursor].ID)
				c.reload()
			}
			return c, nil
		case "p":
			return c, c.export(export.FormatPDF)
		case "w":
			return c, c.export(export.FormatWord)
		case "ctrl+p":
			return c, c.export(export.FormatPrint)
		}

	case actions.ExportDoneMsg:
		c.exporting = false
		c.status = actions.Describe(msg)
		return c, actions.ExpireBanner(c.status)

	case actions.BannerExpiredMsg:
		if c.status == msg.Banner {
			c.status = workspace.Banner{}
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.doc, cmd = c.doc.Update(msg)
	return c, cmd
}

func (c *CollectionScreen) export(format export.Format) tea.Cmd {
	if c.exporting {
		return nil
	}
	job, ok := actions.CollectionJob(c.svc)
	if !ok {
		return nil
	}
	c.exporting = true
	c.status = workspace.Banner{}
	return actions.Export(c.svc, format, job)
}

func (c *CollectionScreen) View(width, height int) string {
	if len(c.plans) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("The weekly collection is empty. Accept a generated plan to add it here."))
	}

	list := c.listView(width)
	status := components.Banner(c.status, width)
	if c.exporting {
		status = theme.Hint.Render("Exporting…")
	}

	parts := []string{list}
	if status != "" {
		parts = append(parts, status)
	}
	used := lipgloss.Height(strings.Join(parts, "\n"))
	c.doc.Resize(width, height-used)
	parts = append(parts, c.doc.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *CollectionScreen) listView(width int) string {
	start := 0
	if c.cursor >= listRows {
		start = c.cursor - listRows + 1
	}
	end := min(start+listRows, len(c.plans))

	var b strings.Builder
	for i := start; i < end; i++ {
		in := c.plans[i].Input
		line := fmt.Sprintf("Week %d  %s  %s: %s", in.Week, in.Subject, in.Topic, in.SubTopic)
		if i == c.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return theme.Card.Width(width).Render(b.String())
}

func (c *CollectionScreen) Title() string {
	return fmt.Sprintf("Weekly Collection (%d)", len(c.plans))
}

// KeyHints implements screen.KeyHintProvider.
func (c *CollectionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "x", Description: "Remove"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "p", Description: "PDF"},
		{Key: "w", Description: "Word"},
		{Key: "Ctrl+P", Description: "Print"},
		{Key: "Esc", Description: "Back"},
	}
}
