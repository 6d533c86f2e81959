package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/flashwriter"
	"github.com/allbin/flashwriter/internal/tui/styles"
)

// RunState is the coarse outcome shown by the status indicator
type RunState int

const (
	RunStarting RunState = iota
	RunActive
	RunSucceeded
	RunFailed
)

type StatusBar struct {
	portPath string
	phase    flashwriter.Phase
	role     flashwriter.Role
	baud     int
	state    RunState
	err      error
	started  time.Time
	width    int
}

func NewStatusBar(portPath string, started time.Time) *StatusBar {
	return &StatusBar{portPath: portPath, started: started}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// Apply takes phase, role and baud from a progress report
func (sb *StatusBar) Apply(p flashwriter.Progress) {
	sb.state = RunActive
	if p.Phase != "" {
		sb.phase = p.Phase
	}
	sb.role = p.Role
	if p.Baud != 0 {
		sb.baud = p.Baud
	}
	if p.Phase == flashwriter.PhaseComplete {
		sb.state = RunSucceeded
	}
}

func (sb *StatusBar) SetFailed(err error) {
	sb.state = RunFailed
	sb.err = err
}

func (sb *StatusBar) SetSucceeded() {
	sb.state = RunSucceeded
}

func (sb *StatusBar) State() RunState {
	return sb.state
}

func (sb *StatusBar) indicator() string {
	switch sb.state {
	case RunFailed:
		return lipgloss.NewStyle().Foreground(styles.Red).Render("✗")
	case RunSucceeded:
		return lipgloss.NewStyle().Foreground(styles.Green).Render("✓")
	case RunActive:
		return lipgloss.NewStyle().Foreground(styles.Green).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(styles.Yellow).Render("○")
	}
}

// View renders phase badge, port, indicator and role on the left, line
// speed and elapsed time on the right
func (sb *StatusBar) View(now time.Time) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	badge := styles.PhaseBadge(sb.phase)
	port := lipgloss.NewStyle().
		Foreground(styles.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	divider := lipgloss.NewStyle().
		Foreground(styles.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{badge, port, sb.indicator()}
	if sb.role != "" {
		left = append(left, lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true).
			Padding(0, 1).
			Render(string(sb.role)))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	lineInfo := "⚡ closed"
	if sb.baud != 0 {
		lineInfo = fmt.Sprintf("⚡ %d baud 8N1", sb.baud)
	}
	details := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Padding(0, 1).
		Render(lineInfo)
	elapsed := lipgloss.NewStyle().
		Foreground(styles.Subtext1).
		Padding(0, 1).
		Render(formatElapsed(now.Sub(sb.started)))
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, elapsed)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
