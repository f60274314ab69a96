package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds every pre-configured style used by the overlay and the
// dock. The accent color comes from the brand config so one binary can
// ship under different brand labels; everything else is fixed palette.
type Styles struct {
	accent lipgloss.Color

	// Shared palette
	mutedGray   lipgloss.Color
	brightWhite lipgloss.Color
	mintGreen   lipgloss.Color
	softRed     lipgloss.Color

	// Overlay
	OverlayBox     lipgloss.Style
	OverlayTitle   lipgloss.Style
	StatusLine     lipgloss.Style
	StatusError    lipgloss.Style
	Summary        lipgloss.Style
	ChipIdle       lipgloss.Style
	ChipSelected   lipgloss.Style
	ChipFocused    lipgloss.Style
	SectionLabel   lipgloss.Style
	Hint           lipgloss.Style
	Link           lipgloss.Style
	NoteBox        lipgloss.Style
	NoteBoxFocused lipgloss.Style

	// Dock
	DockBox       lipgloss.Style
	DockTitle     lipgloss.Style
	DockEntry     lipgloss.Style
	DockFocused   lipgloss.Style
	DockPinned    lipgloss.Style
	DockSubtitle  lipgloss.Style
	DockBadge     lipgloss.Style
	MenuBox       lipgloss.Style
	MenuItem      lipgloss.Style
	MenuFocused   lipgloss.Style
}

// NewStyles builds the style set for an accent color.
func NewStyles(accentColor string) Styles {
	s := Styles{
		accent:      lipgloss.Color(accentColor),
		mutedGray:   lipgloss.Color("#6B7280"),
		brightWhite: lipgloss.Color("#F9FAFB"),
		mintGreen:   lipgloss.Color("#A8E6CF"),
		softRed:     lipgloss.Color("#FFB3BA"),
	}

	s.OverlayBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.accent).
		Padding(0, 1)

	s.OverlayTitle = lipgloss.NewStyle().
		Foreground(s.accent).
		Bold(true)

	s.StatusLine = lipgloss.NewStyle().
		Foreground(s.brightWhite)

	s.StatusError = lipgloss.NewStyle().
		Foreground(s.softRed)

	s.Summary = lipgloss.NewStyle().
		Foreground(s.mutedGray)

	s.ChipIdle = lipgloss.NewStyle().
		Foreground(s.mutedGray).
		Padding(0, 1)

	s.ChipSelected = lipgloss.NewStyle().
		Foreground(s.mintGreen).
		Padding(0, 1).
		Bold(true)

	s.ChipFocused = lipgloss.NewStyle().
		Foreground(s.accent).
		Padding(0, 1).
		Underline(true)

	s.SectionLabel = lipgloss.NewStyle().
		Foreground(s.mutedGray).
		Bold(true)

	s.Hint = lipgloss.NewStyle().
		Foreground(s.mutedGray).
		Italic(true)

	s.Link = lipgloss.NewStyle().
		Foreground(s.accent).
		Underline(true)

	s.NoteBox = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.mutedGray).
		Padding(0, 1)

	s.NoteBoxFocused = s.NoteBox.
		BorderForeground(s.accent)

	s.DockBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.mutedGray).
		Padding(0, 1)

	s.DockTitle = lipgloss.NewStyle().
		Foreground(s.accent).
		Bold(true)

	s.DockEntry = lipgloss.NewStyle().
		Foreground(s.brightWhite)

	s.DockFocused = lipgloss.NewStyle().
		Foreground(s.accent).
		Bold(true)

	s.DockPinned = lipgloss.NewStyle().
		Foreground(s.mintGreen)

	s.DockSubtitle = lipgloss.NewStyle().
		Foreground(s.mutedGray)

	s.DockBadge = lipgloss.NewStyle().
		Foreground(s.mutedGray)

	s.MenuBox = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.accent).
		Padding(0, 1)

	s.MenuItem = lipgloss.NewStyle().
		Foreground(s.brightWhite)

	s.MenuFocused = lipgloss.NewStyle().
		Foreground(s.accent).
		Bold(true)

	return s
}
