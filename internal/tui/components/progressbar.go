package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/allbin/flashwriter"
	"github.com/allbin/flashwriter/internal/tui/styles"
)

// TransferBar renders file transfer progress. It is stateless between
// frames so it works both inside bubbletea and on a plain terminal line.
type TransferBar struct {
	bar progress.Model
}

func NewTransferBar(width int) *TransferBar {
	bar := progress.New(
		progress.WithGradient(string(styles.Blue), string(styles.Mauve)),
		progress.WithWidth(width),
	)
	return &TransferBar{bar: bar}
}

func (tb *TransferBar) SetWidth(width int) {
	tb.bar.Width = width
}

// View renders label, bar and byte counts for p
func (tb *TransferBar) View(p flashwriter.Progress) string {
	label := "loader"
	if p.Role != "" {
		label = string(p.Role)
	}
	return fmt.Sprintf("%-8s %s %s",
		label,
		tb.bar.ViewAs(p.Percentage()/100),
		styles.MutedStyle.Render(fmt.Sprintf("%d/%d bytes", p.BytesSent, p.BytesTotal)))
}
