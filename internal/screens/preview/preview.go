// Package preview shows the generated draft and lets the teacher accept,
// discard or export it.
package preview

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/router"
	"github.com/abhisek/planbook/internal/screen"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/ui/components"
	"github.com/abhisek/planbook/internal/ui/layout"
	"github.com/abhisek/planbook/internal/ui/theme"
	"github.com/abhisek/planbook/internal/workspace"
)

// PreviewScreen renders the pending draft.
type PreviewScreen struct {
	svc       actions.Services
	doc       components.DocView
	week      int
	hasDraft  bool
	status    workspace.Banner
	exporting bool
}

var _ screen.Screen = (*PreviewScreen)(nil)

// New creates a preview of the session's current draft.
func New(svc actions.Services) *PreviewScreen {
	p := &PreviewScreen{svc: svc, doc: components.NewDocView()}
	if job, ok := actions.DraftJob(svc); ok {
		p.doc.SetDocument(job.Doc)
		p.hasDraft = true
		p.week = svc.Session.State().Draft.Input.Week
	}
	return p
}

func (p *PreviewScreen) Init() tea.Cmd {
	return nil
}

func (p *PreviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.hasDraft {
			return p, nil
		}
		switch msg.String() {
		case "a":
			return p, p.accept()
		case "x":
			p.svc.Session.Discard()
			return p, pop
		case "p":
			return p, p.export(export.FormatPDF)
		case "w":
			return p, p.export(export.FormatWord)
		case "ctrl+p":
			return p, p.export(export.FormatPrint)
		}

	case actions.ExportDoneMsg:
		p.exporting = false
		p.status = actions.Describe(msg)
		return p, actions.ExpireBanner(p.status)

	case actions.BannerExpiredMsg:
		if p.status == msg.Banner {
			p.status = workspace.Banner{}
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.doc, cmd = p.doc.Update(msg)
	return p, cmd
}

func (p *PreviewScreen) accept() tea.Cmd {
	if _, err := p.svc.Session.Accept(); err != nil {
		p.status = workspace.Banner{Kind: workspace.BannerError, Text: err.Error()}
		return nil
	}
	accepted := func() tea.Msg { return actions.DraftAcceptedMsg{} }
	return tea.Batch(tea.Sequence(pop, accepted), actions.ExpireBanner(p.svc.Session.State().Banner))
}

func (p *PreviewScreen) export(format export.Format) tea.Cmd {
	if p.exporting {
		return nil
	}
	job, ok := actions.DraftJob(p.svc)
	if !ok {
		return nil
	}
	p.exporting = true
	p.status = workspace.Banner{}
	return actions.Export(p.svc, format, job)
}

func pop() tea.Msg {
	return router.PopScreenMsg{}
}

func (p *PreviewScreen) View(width, height int) string {
	if !p.hasDraft {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No generated plan yet. Fill in the form and generate one."))
	}

	status := components.Banner(p.status, width)
	if p.exporting {
		status = theme.Hint.Render("Exporting…")
	}
	if status == "" {
		status = theme.Hint.Render(fmt.Sprintf("%3.0f%%", p.doc.ScrollPercent()*100))
	}

	p.doc.Resize(width, height-lipgloss.Height(status))
	return lipgloss.JoinVertical(lipgloss.Left, status, p.doc.View())
}

func (p *PreviewScreen) Title() string {
	if !p.hasDraft {
		return "Preview"
	}
	return fmt.Sprintf("Week %d Draft", p.week)
}

// KeyHints implements screen.KeyHintProvider.
func (p *PreviewScreen) KeyHints() []layout.KeyHint {
	if !p.hasDraft {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "a", Description: "Add to collection"},
		{Key: "x", Description: "Discard"},
		{Key: "p", Description: "PDF"},
		{Key: "w", Description: "Word"},
		{Key: "Ctrl+P", Description: "Print"},
		{Key: "Esc", Description: "Back"},
	}
}
