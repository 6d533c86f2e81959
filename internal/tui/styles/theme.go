package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/flashwriter"
)

// Catppuccin Mocha palette, the subset the flash view uses
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Teal   = lipgloss.Color("#94e2d5")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	// Operator-facing status lines
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Subtext0)

	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Surface1)

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(1, 2).
			Margin(1, 0)
)

// PhaseColor returns the badge color for a flash phase
func PhaseColor(phase flashwriter.Phase) lipgloss.Color {
	switch phase {
	case flashwriter.PhaseAwaitingBootstrap:
		return Yellow
	case flashwriter.PhaseLoading:
		return Blue
	case flashwriter.PhaseSwitchingBaud:
		return Peach
	case flashwriter.PhaseFlashing:
		return Mauve
	case flashwriter.PhaseEnablingBoot:
		return Teal
	case flashwriter.PhaseComplete:
		return Green
	default:
		return Surface2
	}
}

// PhaseBadge renders a phase like an editor mode indicator
func PhaseBadge(phase flashwriter.Phase) string {
	label := string(phase)
	if label == "" {
		label = "starting"
	}
	return lipgloss.NewStyle().
		Foreground(Base).
		Background(PhaseColor(phase)).
		Bold(true).
		Padding(0, 1).
		Render(label)
}
