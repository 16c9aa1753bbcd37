// Package themes holds the dashboard color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Muted       lipgloss.Style
	Income      lipgloss.Style
	Expense     lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Card        lipgloss.Style
	Selected    lipgloss.Style
	LevelOK     lipgloss.Style
	LevelWarn   lipgloss.Style
	LevelOver   lipgloss.Style
	StatusError lipgloss.Style
	Primary     lipgloss.Color
	Border      lipgloss.Color
	Success     lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
}

func build(primary, border, text, muted, success, warning, danger lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Border:  border,
		Success: success,
		Warning: warning,
		Error:   danger,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(text).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(muted),
		Normal:   lipgloss.NewStyle().Foreground(text),
		Bold:     lipgloss.NewStyle().Bold(true).Foreground(text),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Income:   lipgloss.NewStyle().Foreground(success),
		Expense:  lipgloss.NewStyle().Foreground(danger),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(primary).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(border).
			Foreground(text),

		LevelOK:     lipgloss.NewStyle().Foreground(success).Bold(true),
		LevelWarn:   lipgloss.NewStyle().Foreground(warning).Bold(true),
		LevelOver:   lipgloss.NewStyle().Foreground(danger).Bold(true),
		StatusError: lipgloss.NewStyle().Foreground(danger).Bold(true),
	}
}

// Default is the dark theme.
var Default = build(
	lipgloss.Color("#6366f1"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
)

// Light suits terminals with a light background.
var Light = build(
	lipgloss.Color("#4f46e5"),
	lipgloss.Color("#d4d4d4"),
	lipgloss.Color("#171717"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#059669"),
	lipgloss.Color("#d97706"),
	lipgloss.Color("#dc2626"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	if name == "light" {
		return Light
	}
	return Default
}
