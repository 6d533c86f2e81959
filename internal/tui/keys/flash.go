package keys

import "github.com/charmbracelet/bubbles/key"

// FlashKeys are the bindings of the flash run view
type FlashKeys struct {
	Quit      key.Binding
	Help      key.Binding
	ToggleHex key.Binding
	Follow    key.Binding
	Up        key.Binding
	Down      key.Binding
}

func NewFlashKeys() FlashKeys {
	return FlashKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "abort/quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		ToggleHex: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle hex"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow output"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

func (k FlashKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleHex, k.Quit}
}

func (k FlashKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Follow, k.ToggleHex},
		{k.Help, k.Quit},
	}
}
