package components

import (
	"github.com/abhisek/planbook/internal/ui/theme"
	"github.com/abhisek/planbook/internal/workspace"
)

// Banner renders a workspace banner, or nothing when none is set.
func Banner(b workspace.Banner, width int) string {
	switch b.Kind {
	case workspace.BannerSuccess:
		return theme.BannerSuccess.MaxWidth(width).Render("✓ " + b.Text)
	case workspace.BannerError:
		return theme.BannerError.MaxWidth(width).Render("✗ " + b.Text)
	}
	return ""
}
