package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/user/video-trimmer-cli/tui/components"
)

type keyMap struct {
	PlayPause key.Binding
	Back      key.Binding
	Forward   key.Binding
	Save      key.Binding
	Dismiss   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scrub back")),
		Forward:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scrub forward")),
		Save:      key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "export selection")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is part of help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Save, k.Help, k.Quit}
}

// FullHelp is part of help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Back, k.Forward},
		{k.Save, k.Dismiss},
		{k.Help, k.Quit},
	}
}

func (k keyMap) groups() []components.HelpGroup {
	full := k.FullHelp()
	return []components.HelpGroup{
		{Title: "Playback", Bindings: full[0]},
		{Title: "Export", Bindings: full[1]},
		{Title: "General", Bindings: append(full[2], mouseHelp...)},
	}
}

// mouseHelp documents the mouse, which has no key to bind.
var mouseHelp = []key.Binding{
	key.NewBinding(key.WithKeys("drag-thumb"), key.WithHelp("drag thumb", "move a window edge")),
	key.NewBinding(key.WithKeys("drag-bar"), key.WithHelp("drag bar", "scrub inside the window")),
}
