package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	logout   key.Binding
	newEntry key.Binding
	edit     key.Binding
	delete   key.Binding
	settings key.Binding
	profile  key.Binding
	stats    key.Binding
	export   key.Binding
	imprt    key.Binding
	theme    key.Binding
	refresh  key.Binding
	copy     key.Binding
	yes      key.Binding
	no       key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q")),
	logout:   key.NewBinding(key.WithKeys("l")),
	newEntry: key.NewBinding(key.WithKeys("n")),
	edit:     key.NewBinding(key.WithKeys("e")),
	delete:   key.NewBinding(key.WithKeys("d")),
	settings: key.NewBinding(key.WithKeys("s")),
	profile:  key.NewBinding(key.WithKeys("p")),
	stats:    key.NewBinding(key.WithKeys("v")),
	export:   key.NewBinding(key.WithKeys("x")),
	imprt:    key.NewBinding(key.WithKeys("i")),
	theme:    key.NewBinding(key.WithKeys("t")),
	refresh:  key.NewBinding(key.WithKeys("r")),
	copy:     key.NewBinding(key.WithKeys("c")),
	yes:      key.NewBinding(key.WithKeys("y")),
	no:       key.NewBinding(key.WithKeys("n")),
}
