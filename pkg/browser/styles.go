package browser

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("212")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	mutedColor   = lipgloss.Color("241")
	borderColor  = lipgloss.Color("240")
)

// Card styles. Every card keeps a border so the grid geometry does not
// depend on state.
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Foreground(lipgloss.Color("252"))

	cardCheckedStyle = cardStyle.
				BorderForeground(successColor).
				Foreground(lipgloss.Color("255")).
				Bold(true)

	cardDisabledStyle = cardStyle.
				BorderForeground(lipgloss.Color("236")).
				Foreground(mutedColor).
				Faint(true)
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(warningColor).
			Padding(0, 1)

	mutedText = lipgloss.NewStyle().Foreground(mutedColor)
)
