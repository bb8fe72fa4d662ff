package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pan        key.Binding
	FastPan    key.Binding
	Zoom       key.Binding
	Fit        key.Binding
	NextBuffer key.Binding
	PrevBuffer key.Binding
	Toggle     key.Binding
	Reload     key.Binding
	Side       key.Binding
	Viewport   key.Binding
	Copy       key.Binding
	Export     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pan: key.NewBinding(
			key.WithKeys("h", "j", "k", "l", "left", "down", "up", "right"),
			key.WithHelp("hjkl", "pan"),
		),
		FastPan: key.NewBinding(
			key.WithKeys("H", "J", "K", "L", "shift+left", "shift+down", "shift+up", "shift+right"),
			key.WithHelp("HJKL", "pan faster"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("+", "=", "-", "_"),
			key.WithHelp("+/-", "zoom"),
		),
		Fit: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "fit diagram"),
		),
		NextBuffer: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next chart"),
		),
		PrevBuffer: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous chart"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle minimap"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload minimap"),
		),
		Side: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "switch side"),
		),
		Viewport: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle viewport frame"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy minimap svg"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export minimap png"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pan, k.Zoom, k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pan, k.FastPan, k.Zoom, k.Fit},
		{k.NextBuffer, k.PrevBuffer, k.Reload},
		{k.Toggle, k.Side, k.Viewport},
		{k.Copy, k.Export, k.Help, k.Quit},
	}
}
