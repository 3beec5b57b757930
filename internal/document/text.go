package document

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	textBlue   = lipgloss.Color("#1E3A8A")
	textBorder = lipgloss.Color("#475569")

	schoolStyle  = lipgloss.NewStyle().Bold(true).Foreground(textBlue)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	breakStyle   = lipgloss.NewStyle().Foreground(textBorder)
)

// MinTextWidth is the narrowest width Text lays out for.
const MinTextWidth = 60

// Text renders d for a terminal of the given width.
func Text(d *Document, width int) string {
	width = max(width, MinTextWidth)

	var parts []string
	for _, n := range d.Nodes {
		switch n := n.(type) {
		case PageBreak:
			parts = append(parts, breakStyle.Render(strings.Repeat("┄", width)))
		case *Section:
			parts = append(parts, sectionText(n, width))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sectionText(s *Section, width int) string {
	head := []string{
		schoolStyle.Render(strings.ToUpper(s.Letterhead.SchoolName)),
		labelStyle.Render("Address: ") + s.Letterhead.Address,
	}
	if s.Letterhead.LogoRef != "" {
		head = append(head, breakStyle.Render("Logo: "+s.Letterhead.LogoRef))
	}
	head = append(head,
		"",
		fmt.Sprintf("%s%s   %s%s   %s%s",
			labelStyle.Render("Teacher's Name: "), s.TeacherName,
			labelStyle.Render("Term: "), s.Term,
			labelStyle.Render("Session: "), s.Session),
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, headingStyle.Render(strings.ToUpper(s.Heading))),
	)

	meta := newTable(width)
	for _, f := range s.Metadata {
		meta.Row(f.Label, f.Value)
	}

	details := newTable(width).Headers(DetailHeaders...)
	for _, r := range s.Details {
		details.Row(r.Label, r.PlainText(), "")
	}

	steps := newTable(width).Headers(StepHeaders...)
	for _, st := range s.Steps {
		steps.Row(st.Stage, st.TeacherActivities, st.PupilsActivities, st.LearningPoints, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(head, "\n"),
		meta.String(),
		details.String(),
		labelStyle.Render("Lesson Development"),
		steps.String(),
	)
}

func newTable(width int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(textBorder)).
		Width(width).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || col == 0 {
				st = st.Bold(true)
			}
			return st
		})
}
