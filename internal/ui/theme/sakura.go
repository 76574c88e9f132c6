package theme

import "github.com/charmbracelet/lipgloss"

// Sakura theme - soft pink on warm dark
var Sakura = Theme{
	Name: "sakura",

	Background: lipgloss.Color("#1F1B24"),
	Foreground: lipgloss.Color("#F4ECF1"),
	Subtle:     lipgloss.Color("#6B5E6B"),
	Highlight:  lipgloss.Color("#332A36"),
	Border:     lipgloss.Color("#4A3F4D"),

	Primary:   lipgloss.Color("#F7A8C4"), // cherry blossom pink
	Secondary: lipgloss.Color("#C9A0DC"), // wisteria
	Info:      lipgloss.Color("#8EC5E8"),

	Success: lipgloss.Color("#A8D8A8"),
	Warning: lipgloss.Color("#F2D091"),
	Error:   lipgloss.Color("#E88B8B"),

	Pinned:    lipgloss.Color("#F7A8C4"),
	Important: lipgloss.Color("#F2D091"),
	Overdue:   lipgloss.Color("#E88B8B"),
	Mismatch:  lipgloss.Color("#F2D091"),
}
