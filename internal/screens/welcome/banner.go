package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗      █████╗ ███╗   ██╗██████╗  ██████╗  ██████╗ ██╗  ██╗
 ██╔══██╗██║     ██╔══██╗████╗  ██║██╔══██╗██╔═══██╗██╔═══██╗██║ ██╔╝
 ██████╔╝██║     ███████║██╔██╗ ██║██████╔╝██║   ██║██║   ██║█████╔╝
 ██╔═══╝ ██║     ██╔══██║██║╚██╗██║██╔══██╗██║   ██║██║   ██║██╔═██╗
 ██║     ███████╗██║  ██║██║ ╚████║██████╔╝╚██████╔╝╚██████╔╝██║  ██╗
 ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝╚═════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "P L A N B O O K"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 70

// RenderBanner returns the PLANBOOK banner styled in the primary color,
// or a compact fallback when the art does not fit.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
