// Package actions holds the commands and messages the planbook screens
// share: generation, export and banner expiry all run as tea.Cmds so the
// event loop never blocks.
package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/workspace"
)

// BannerTimeout is how long a success banner stays on screen.
const BannerTimeout = 3 * time.Second

// Services are the long-lived collaborators the screens act on.
type Services struct {
	Session   *workspace.Session
	Renderer  *document.Renderer
	Exporter  *export.Exporter
	ExportDir string
}

// GenerateDoneMsg carries the outcome of a generation.
type GenerateDoneMsg struct {
	State workspace.State
	Err   error
}

// ExportDoneMsg carries the outcome of an export.
type ExportDoneMsg struct {
	Delivery export.Delivery
	Err      error
}

// DraftAcceptedMsg tells the form the session moved on to the next week.
type DraftAcceptedMsg struct{}

// BannerExpiredMsg asks for Banner to be cleared if it is still showing.
type BannerExpiredMsg struct {
	Banner workspace.Banner
}

// Generate runs one generation for input off the event loop.
func Generate(svc Services, input lessonplan.LessonInput) tea.Cmd {
	return func() tea.Msg {
		st, err := svc.Session.Generate(context.Background(), input)
		return GenerateDoneMsg{State: st, Err: err}
	}
}

// Export runs job in format and saves any file into the export directory.
func Export(svc Services, format export.Format, job export.Job) tea.Cmd {
	return func() tea.Msg {
		d, err := svc.Exporter.ExportTo(context.Background(), format, job, svc.ExportDir)
		return ExportDoneMsg{Delivery: d, Err: err}
	}
}

// ExpireBanner schedules b to be cleared after BannerTimeout.
func ExpireBanner(b workspace.Banner) tea.Cmd {
	if b.Kind == workspace.BannerNone {
		return nil
	}
	return tea.Tick(BannerTimeout, func(time.Time) tea.Msg {
		return BannerExpiredMsg{Banner: b}
	})
}

// DraftJob builds an export job for the pending draft.
func DraftJob(svc Services) (export.Job, bool) {
	st := svc.Session.State()
	if st.Draft == nil {
		return export.Job{}, false
	}
	return export.Job{
		Doc:       svc.Renderer.RenderSingle(st.Draft.Input, st.Draft.Content),
		Subject:   st.Draft.Input.Subject,
		Scope:     export.ScopeDraft,
		PlanCount: 1,
	}, true
}

// CollectionJob builds an export job for the whole weekly collection. The
// files are named after the subject currently in the form.
func CollectionJob(svc Services) (export.Job, bool) {
	plans := svc.Session.Plans()
	if len(plans) == 0 {
		return export.Job{}, false
	}
	return export.Job{
		Doc:       svc.Renderer.RenderCombined(plans),
		Subject:   svc.Session.State().Form.Subject,
		Scope:     export.ScopeCollection,
		PlanCount: len(plans),
	}, true
}

// Describe turns an export outcome into a status line.
func Describe(msg ExportDoneMsg) workspace.Banner {
	switch {
	case errors.Is(msg.Err, export.ErrEmptyDocument):
		return workspace.Banner{Kind: workspace.BannerError, Text: "Nothing to export yet."}
	case msg.Err != nil:
		return workspace.Banner{Kind: workspace.BannerError, Text: fmt.Sprintf("Export failed: %v", msg.Err)}
	case msg.Delivery.Printed && msg.Delivery.Format == export.FormatPDF:
		return workspace.Banner{Kind: workspace.BannerSuccess, Text: "PDF export is unavailable; sent to the printer instead."}
	case msg.Delivery.Printed:
		return workspace.Banner{Kind: workspace.BannerSuccess, Text: "Sent to the printer."}
	}
	return workspace.Banner{Kind: workspace.BannerSuccess, Text: "Saved " + msg.Delivery.Path}
}
