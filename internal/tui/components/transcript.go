package components

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Transcript is a scrollable view of everything the device printed
type Transcript struct {
	viewport  viewport.Model
	formatter *Formatter
	entries   []Entry
	follow    bool
}

func NewTranscript(width, height int) *Transcript {
	return &Transcript{
		viewport:  viewport.New(width, height),
		formatter: NewFormatter(false),
		follow:    true,
	}
}

func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Transcript) Width() int {
	return t.viewport.Width
}

func (t *Transcript) AddData(ts time.Time, data []byte) {
	t.entries = append(t.entries, Entry{Timestamp: ts, Data: data})
	t.refresh()
}

func (t *Transcript) AddNotice(ts time.Time, notice string) {
	t.entries = append(t.entries, Entry{Timestamp: ts, Notice: notice})
	t.refresh()
}

func (t *Transcript) Entries() []Entry {
	return t.entries
}

func (t *Transcript) ToggleHex() {
	t.formatter.ToggleHex()
	t.refresh()
}

func (t *Transcript) GetDisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

// Follow pins the view to the newest output
func (t *Transcript) Follow() {
	t.follow = true
	t.viewport.GotoBottom()
}

func (t *Transcript) ScrollUp() {
	t.follow = false
	t.viewport.LineUp(1)
}

func (t *Transcript) ScrollDown() {
	t.viewport.LineDown(1)
	if t.viewport.AtBottom() {
		t.follow = true
	}
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.formatter.Format(t.entries))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t *Transcript) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Only pass certain message types to viewport to prevent it from consuming our key bindings
	switch msg.(type) {
	case tea.WindowSizeMsg:
		return t.viewport.Update(msg)
	default:
		return t.viewport, nil
	}
}

func (t *Transcript) View() string {
	return t.viewport.View()
}
