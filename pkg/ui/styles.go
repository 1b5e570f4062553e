package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette, Dracula-leaning with semantic day-status colors.
var (
	ColorBg        = lipgloss.Color("#282A36")
	ColorBgSubtle  = lipgloss.Color("#363949")
	ColorText      = lipgloss.Color("#F8F8F2")
	ColorSubtext   = lipgloss.Color("#BFBFBF")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")

	// Day status colors
	ColorSafe      = lipgloss.Color("#50FA7B")
	ColorNearMiss  = lipgloss.Color("#FFB86C")
	ColorAccident  = lipgloss.Color("#FF5555")
	ColorUndecided = lipgloss.Color("#44475A")
)

// Panel border styles. The swap gesture recolors borders so an operator can
// see which slots may accept the drop.
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#44475A"))

	SwapSourceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary)

	DroppableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess)

	NotDroppableStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SubtextStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusLineStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Background(ColorBgSubtle)

	LockedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// StatusDot renders a single-cell marker for a day status.
func StatusDot(status string) string {
	switch status {
	case "safe":
		return lipgloss.NewStyle().Foreground(ColorSafe).Render("●")
	case "near_miss":
		return lipgloss.NewStyle().Foreground(ColorNearMiss).Render("●")
	case "accident":
		return lipgloss.NewStyle().Foreground(ColorAccident).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(ColorUndecided).Render("·")
	}
}

// RenderDivider renders a horizontal divider line.
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return MutedStyle.Render(strings.Repeat("─", width))
}
