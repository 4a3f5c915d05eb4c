package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	esc        key.Binding
	quit       key.Binding
	keepLocal  key.Binding
	keepServer key.Binding
	skip       key.Binding
}

var keys = keyMap{
	up:         key.NewBinding(key.WithKeys("up", "k")),
	down:       key.NewBinding(key.WithKeys("down", "j")),
	enter:      key.NewBinding(key.WithKeys("enter")),
	esc:        key.NewBinding(key.WithKeys("esc")),
	quit:       key.NewBinding(key.WithKeys("q", "ctrl+c")),
	keepLocal:  key.NewBinding(key.WithKeys("l")),
	keepServer: key.NewBinding(key.WithKeys("s")),
	skip:       key.NewBinding(key.WithKeys("d")),
}
