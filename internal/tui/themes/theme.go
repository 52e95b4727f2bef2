// Package themes holds the color schemes of the review screen.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Code        lipgloss.Style
	Selected    lipgloss.Style
	RoundedBox  lipgloss.Style
	Label       lipgloss.Style
	Defaulted   lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style
	StatusInfo  lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:  "#5b8def",
	fg:       "#fafafa",
	muted:    "#737373",
	border:   "#404040",
	codeBg:   "#262626",
	success:  "#10b981",
	warning:  "#f59e0b",
	errorCol: "#ef4444",
	info:     "#3b82f6",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:  "#cba6f7",
	fg:       "#cdd6f4",
	muted:    "#6c7086",
	border:   "#45475a",
	codeBg:   "#313244",
	success:  "#a6e3a1",
	warning:  "#f9e2af",
	errorCol: "#f38ba8",
	info:     "#89dceb",
})

// ByName returns the theme called name, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "mocha", "catppuccin":
		return CatppuccinMocha
	default:
		return Default
	}
}

type palette struct {
	primary, fg, muted, border, codeBg string
	success, warning, errorCol, info   string
}

func newTheme(p palette) Theme {
	return Theme{
		Primary: lipgloss.Color(p.primary),
		Muted:   lipgloss.Color(p.muted),
		Border:  lipgloss.Color(p.border),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.fg)),
		Code: lipgloss.NewStyle().
			Background(lipgloss.Color(p.codeBg)).
			Foreground(lipgloss.Color(p.fg)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.fg)).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.muted)).
			Width(14),
		Defaulted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Italic(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errorCol)).
			Bold(true),
		StatusOK: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)),
	}
}
