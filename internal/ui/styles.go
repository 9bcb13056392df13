// Package ui holds the lipgloss palette of the interview TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/interview-assistant/internal/dashboard"
	"github.com/spigell/interview-assistant/internal/notify"
)

// Colors used throughout the TUI and the dashboard.
var (
	ColorRed     = lipgloss.Color("#FF5F5F")
	ColorGreen   = lipgloss.Color("#5FD75F")
	ColorYellow  = lipgloss.Color("#FFD700")
	ColorCyan    = lipgloss.Color("#00D7FF")
	ColorBlue    = lipgloss.Color("#4472C4")
	ColorGray    = lipgloss.Color("#808080")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	BotLabelStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	BusyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorBlue).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

// TimerStyle colours the countdown by the share of time left: green above
// half, yellow above a quarter, red otherwise.
func TimerStyle(remaining, limit int) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if limit <= 0 {
		return style.Foreground(ColorGray)
	}
	switch pct := float64(remaining) / float64(limit); {
	case pct > 0.5:
		return style.Foreground(ColorGreen)
	case pct > 0.25:
		return style.Foreground(ColorYellow)
	default:
		return style.Foreground(ColorRed)
	}
}

// BandStyle colours a final score by its band.
func BandStyle(band dashboard.Band) lipgloss.Style {
	switch band {
	case dashboard.BandGood:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case dashboard.BandFair:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Foreground(ColorRed)
	}
}

// SeverityColor is the border colour of a notice modal.
func SeverityColor(severity notify.Severity) lipgloss.Color {
	switch severity {
	case notify.SeverityError:
		return ColorRed
	case notify.SeverityWarning:
		return ColorYellow
	default:
		return ColorCyan
	}
}
