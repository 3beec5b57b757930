package components

import "github.com/abhisek/planbook/internal/ui/theme"

// Button renders a one-line action. The focused button is highlighted.
func Button(label string, focused bool) string {
	if focused {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render("  " + label)
}
