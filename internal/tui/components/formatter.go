package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/flashwriter/internal/tui/styles"
)

// Entry is one piece of the run transcript: bytes from the device or an
// operator notice from the flasher
type Entry struct {
	Timestamp time.Time
	Data      []byte
	Notice    string
}

// DisplayMode selects how device bytes are rendered
type DisplayMode struct {
	ShowHex bool
}

type Formatter struct {
	mode DisplayMode
}

func NewFormatter(showHex bool) *Formatter {
	return &Formatter{mode: DisplayMode{ShowHex: showHex}}
}

func (f *Formatter) GetDisplayMode() DisplayMode {
	return f.mode
}

func (f *Formatter) ToggleHex() {
	f.mode.ShowHex = !f.mode.ShowHex
}

// Format renders entries as viewport content. Text mode treats device output
// as one stream so prompts split across reads stay on one line.
func (f *Formatter) Format(entries []Entry) string {
	if f.mode.ShowHex {
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, f.formatHexLine(e))
		}
		return strings.Join(lines, "\n")
	}

	var b strings.Builder
	for _, e := range entries {
		if e.Notice != "" {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			b.WriteString(noticeLine(e.Notice))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(sanitize(e.Data))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) formatHexLine(e Entry) string {
	timestamp := lipgloss.NewStyle().
		Foreground(styles.Subtext0).
		Render(fmt.Sprintf("[%s]", e.Timestamp.Format("15:04:05.000")))

	if e.Notice != "" {
		return fmt.Sprintf("%s %s", timestamp, noticeLine(e.Notice))
	}

	indicator := lipgloss.NewStyle().
		Foreground(styles.Sky).
		Bold(true).
		Render("↙ RX")
	return fmt.Sprintf("%s %s: % X", timestamp, indicator, e.Data)
}

func noticeLine(notice string) string {
	return styles.NoticeStyle.Render("» " + notice)
}

// sanitize keeps newlines and tabs, drops CR and replaces other control
// bytes with dots so device output cannot move the cursor
func sanitize(data []byte) string {
	var b strings.Builder
	for _, r := range string(data) {
		switch {
		case r == '\r':
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 32 || r == 127:
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
