package models

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/flashwriter"
	"github.com/allbin/flashwriter/internal/tui/components"
	"github.com/allbin/flashwriter/internal/tui/keys"
	"github.com/allbin/flashwriter/internal/tui/styles"
)

// TranscriptMsg carries bytes the device printed
type TranscriptMsg struct {
	Timestamp time.Time
	Data      []byte
}

// ProgressMsg carries a progress report from the flasher
type ProgressMsg struct {
	Timestamp time.Time
	Progress  flashwriter.Progress
}

// DoneMsg is sent once when the flash run returns
type DoneMsg struct {
	Result *flashwriter.Result
	Err    error
}

type tickMsg time.Time

// FlashModel is the bubbletea model of a flash run. The run itself happens
// in another goroutine; the model only observes it through messages.
type FlashModel struct {
	transcript *components.Transcript
	statusBar  *components.StatusBar
	bar        *components.TransferBar
	help       help.Model
	keys       keys.FlashKeys

	ready    bool
	transfer *flashwriter.Progress
	result   *flashwriter.Result
	err      error
	done     bool
	aborted  bool

	// cancel aborts the run when the operator quits early
	cancel context.CancelFunc
	now    func() time.Time
}

func NewFlashModel(portPath string, cancel context.CancelFunc) *FlashModel {
	now := time.Now
	return &FlashModel{
		transcript: components.NewTranscript(80, 20),
		statusBar:  components.NewStatusBar(portPath, now()),
		bar:        components.NewTransferBar(40),
		help:       help.New(),
		keys:       keys.NewFlashKeys(),
		cancel:     cancel,
		now:        now,
	}
}

// Result returns the run result, nil until a successful DoneMsg
func (m *FlashModel) Result() *flashwriter.Result {
	return m.result
}

// Err returns the run error, if any
func (m *FlashModel) Err() error {
	return m.err
}

// Aborted reports whether the operator quit before the run finished
func (m *FlashModel) Aborted() bool {
	return m.aborted
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *FlashModel) Init() tea.Cmd {
	return tick()
}

func (m *FlashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// status bar and transfer line are one row each, plus the content border
		m.transcript.SetSize(msg.Width, max(msg.Height-3, 1))
		m.statusBar.SetWidth(msg.Width)
		m.bar.SetWidth(max(msg.Width-40, 10))
		m.ready = true

		_, cmd := m.transcript.Update(msg)
		cmds = append(cmds, cmd)

	case tickMsg:
		if !m.done {
			cmds = append(cmds, tick())
		}

	case TranscriptMsg:
		m.transcript.AddData(msg.Timestamp, msg.Data)

	case ProgressMsg:
		p := msg.Progress
		m.statusBar.Apply(p)
		switch {
		case p.Message != "":
			m.transcript.AddNotice(msg.Timestamp, p.Message)
		case p.BytesTotal > 0:
			m.transfer = &p
		}

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.statusBar.SetFailed(msg.Err)
			m.transcript.AddNotice(m.now(), "Error: "+msg.Err.Error())
		} else {
			m.statusBar.SetSucceeded()
		}
		m.transcript.AddNotice(m.now(), "Press q to exit")

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if !m.done {
				m.aborted = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.ToggleHex):
			m.transcript.ToggleHex()

		case key.Matches(msg, m.keys.Follow):
			m.transcript.Follow()

		case key.Matches(msg, m.keys.Up):
			m.transcript.ScrollUp()

		case key.Matches(msg, m.keys.Down):
			m.transcript.ScrollDown()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *FlashModel) transferLine() string {
	if m.transfer == nil {
		return styles.MutedStyle.Render("waiting for transfer")
	}
	return m.bar.View(*m.transfer)
}

func (m *FlashModel) View() string {
	content := "Initializing..."
	if m.ready {
		content = m.transcript.View()
	}

	rows := []string{
		styles.ContentBorderStyle.Render(content),
		m.transferLine(),
	}
	if m.help.ShowAll {
		rows = append(rows, styles.HelpStyle.Render(m.help.View(m.keys)))
	}
	rows = append(rows, m.statusBar.View(m.now()))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Summary is the line printed after the view closes
func (m *FlashModel) Summary() string {
	switch {
	case m.aborted:
		return styles.ErrorStyle.Render("✗ Aborted")
	case m.err != nil:
		return styles.ErrorStyle.Render(fmt.Sprintf("✗ %v", m.err))
	case m.result != nil:
		return styles.SuccessStyle.Render(fmt.Sprintf("✓ Flashing complete in %d seconds.", m.result.Seconds()))
	default:
		return ""
	}
}
