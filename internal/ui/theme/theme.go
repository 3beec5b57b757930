// Package theme holds the TUI palette and shared styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: chalkboard greens with a warm accent.
var (
	Primary   = lipgloss.Color("#2F855A") // Chalkboard Green
	Secondary = lipgloss.Color("#3182CE") // Ink Blue
	Accent    = lipgloss.Color("#DD6B20") // Pencil Orange
	Success   = lipgloss.Color("#38A169") // Green
	Error     = lipgloss.Color("#E53E3E") // Red
	Text      = lipgloss.Color("#F7FAFC") // Paper
	TextDim   = lipgloss.Color("#A0AEC0") // Graphite
	BgCard    = lipgloss.Color("#2D3748") // Board
	Border    = lipgloss.Color("#4A5568") // Frame
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Bold(true)
)

// Card frames a panel such as the home menu or the collection list.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Required = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// Banners
var (
	BannerSuccess = lipgloss.NewStyle().
			Foreground(Text).
			Background(Success).
			Bold(true).
			Padding(0, 1)

	BannerError = lipgloss.NewStyle().
			Foreground(Text).
			Background(Error).
			Bold(true).
			Padding(0, 1)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
