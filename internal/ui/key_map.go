package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	nextTab key.Binding
	prevTab key.Binding
	search  key.Binding

	toggle  key.Binding
	next    key.Binding
	prev    key.Binding
	shuffle key.Binding
	repeat  key.Binding
	like    key.Binding
	volUp   key.Binding
	volDown key.Binding
	seekFwd key.Binding
	seekBck key.Binding

	enqueue   key.Binding
	remove    key.Binding
	addToList key.Binding
	create    key.Binding
	theme     key.Binding
	logout    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		nextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		prevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),

		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
		shuffle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		like:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		volUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		volDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "vol down")),
		seekFwd: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+5s")),
		seekBck: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-5s")),

		enqueue:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to queue")),
		remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		addToList: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "add to playlist")),
		create:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextTab, k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back, k.nextTab, k.search},
		{k.toggle, k.next, k.prev, k.shuffle, k.repeat, k.like},
		{k.volUp, k.volDown, k.seekFwd, k.seekBck},
		{k.enqueue, k.remove, k.addToList, k.create, k.theme, k.quit},
	}
}
