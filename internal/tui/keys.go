package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	quit      key.Binding
	forceQuit key.Binding
	newItem   key.Binding
	edit      key.Binding
	delete    key.Binding
	take      key.Binding
	sync      key.Binding
	save      key.Binding
	restore   key.Binding
	signIn    key.Binding
	signOut   key.Binding
	copyID    key.Binding
	version   key.Binding
	yes       key.Binding
	no        key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab")),
	quit:      key.NewBinding(key.WithKeys("q")),
	forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	newItem:   key.NewBinding(key.WithKeys("n")),
	edit:      key.NewBinding(key.WithKeys("e")),
	delete:    key.NewBinding(key.WithKeys("ctrl+d")),
	take:      key.NewBinding(key.WithKeys("t")),
	sync:      key.NewBinding(key.WithKeys("s")),
	save:      key.NewBinding(key.WithKeys("c")),
	restore:   key.NewBinding(key.WithKeys("r")),
	signIn:    key.NewBinding(key.WithKeys("i")),
	signOut:   key.NewBinding(key.WithKeys("o")),
	copyID:    key.NewBinding(key.WithKeys("u")),
	version:   key.NewBinding(key.WithKeys("v")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
}
