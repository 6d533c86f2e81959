package models

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/allbin/flashwriter"
)

// Sender is the part of tea.Program used to feed the view
type Sender interface {
	Send(msg tea.Msg)
}

// TranscriptWriter forwards device output to the view. Each write is copied
// since the flasher reuses its read buffer.
type TranscriptWriter struct {
	Sender Sender
}

func (w TranscriptWriter) Write(p []byte) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	w.Sender.Send(TranscriptMsg{Timestamp: time.Now(), Data: data})
	return len(p), nil
}

// ProgressForwarder returns a progress callback that forwards reports to the view
func ProgressForwarder(s Sender) flashwriter.ProgressCallback {
	return func(p flashwriter.Progress) {
		s.Send(ProgressMsg{Timestamp: time.Now(), Progress: p})
	}
}
