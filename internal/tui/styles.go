package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorPrimary    = lipgloss.Color("214") // Gold
	ColorMuted      = lipgloss.Color("241") // Gray
	ColorBackground = lipgloss.Color("236") // Dark gray
	ColorSelected   = lipgloss.Color("94")  // Dark amber
	ColorSelectedFg = lipgloss.Color("230") // Cream
	ColorGreen      = lipgloss.Color("82")  // Positive growth
	ColorRed        = lipgloss.Color("196") // Negative growth, errors
	ColorWarning    = lipgloss.Color("220") // Yellow for warnings
	ColorDrag       = lipgloss.Color("45")  // Row being dragged
)

// Shared styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBackground).
			Padding(0, 1)

	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	DescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().Bold(true)

	LabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	DragStyle = lipgloss.NewStyle().
			Foreground(ColorDrag).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
)

// TableStyles returns the default table styles for TUI tables.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorSelectedFg).
		Background(ColorSelected).
		Bold(true)
	return s
}
