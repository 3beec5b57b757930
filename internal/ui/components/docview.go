package components

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/planbook/internal/document"
)

// DocView is a scrollable terminal rendering of a document. The text is
// re-rendered only when the document or the width changes.
type DocView struct {
	vp       viewport.Model
	doc      *document.Document
	rendered int
}

// NewDocView creates an empty document view.
func NewDocView() DocView {
	return DocView{vp: viewport.New(viewport.WithWidth(document.MinTextWidth), viewport.WithHeight(10))}
}

// SetDocument replaces the document and scrolls back to the top.
func (d *DocView) SetDocument(doc *document.Document) {
	d.doc = doc
	d.rendered = 0
	if doc == nil {
		d.vp.SetContent("")
	}
	d.vp.SetYOffset(0)
}

// Resize fits the view into width x height.
func (d *DocView) Resize(width, height int) {
	if height < 1 {
		height = 1
	}
	d.vp.SetWidth(width)
	d.vp.SetHeight(height)
	if d.doc != nil && d.rendered != width {
		d.vp.SetContent(document.Text(d.doc, width))
		d.rendered = width
	}
}

// Update scrolls the view.
func (d DocView) Update(msg tea.Msg) (DocView, tea.Cmd) {
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return d, cmd
}

// View renders the visible part of the document.
func (d DocView) View() string {
	return d.vp.View()
}

// ScrollPercent reports how far the view is scrolled.
func (d DocView) ScrollPercent() float64 {
	return d.vp.ScrollPercent()
}
