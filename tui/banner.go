package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerForegroupColor = lipgloss.AdaptiveColor{Light: "#a60853", Dark: "#F652A0"}
	bannerBorderColor    = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#AAAAAA"}
	bannerTitleColor     = lipgloss.AdaptiveColor{Light: "#00AAAA", Dark: "#00FFFF"}
	bannerStyle          = lipgloss.NewStyle().
				Padding(0, 1).
				AlignVertical(lipgloss.Top).
				AlignHorizontal(lipgloss.Left).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(bannerBorderColor)
	bannerBodyStyle  = lipgloss.NewStyle().Foreground(bannerForegroupColor)
	bannerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(bannerTitleColor)
)

// Banner boxes a title over an optional body, wrapping both to width columns
// including the border.
func Banner(title string, body string, width int) string {
	inner := max(width-4, 10)
	block := bannerTitleStyle.Width(inner).Render(title)
	if body != "" {
		block += "\n\n" + bannerBodyStyle.Width(inner).Render(body)
	}
	return bannerStyle.Render(block)
}
