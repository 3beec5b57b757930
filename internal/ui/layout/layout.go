// Package layout draws the frame around every TUI screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/ui/theme"
)

// The form needs room for a label column plus a usable input.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("The planbook needs at least %d×%d.\n\nThis terminal is %d×%d.",
			MinWidth, MinHeight, width, height))
}

// RenderHeader shows the brand on the left, the screen title centred and
// the collection size on the right.
func RenderHeader(title string, plans int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("✎ Planbook")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	count := lipgloss.NewStyle().Foreground(theme.Accent).Render(PlanCount(plans))

	return bar.Width(width).Render(spread(width-4, brand, center, count))
}

// PlanCount labels the number of plans in the weekly collection.
func PlanCount(n int) string {
	if n == 1 {
		return "▤ 1 plan"
	}
	return fmt.Sprintf("▤ %d plans", n)
}

// spread lays out three segments across inner columns, keeping center in
// the middle when there is room and at least one space between segments.
func spread(inner int, left, center, right string) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)
	return left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render(" " + strings.Join(parts, "  ·  "))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
