package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-portfolio/internal/gallery"
)

type keyMap struct {
	NextFilter key.Binding
	PrevFilter key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Close      key.Binding
	NextImage  key.Binding
	PrevImage  key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevFilter: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		NextPage:   key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "prev page")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		NextImage:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		PrevImage:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// lightboxKey translates a terminal key into the lightbox key vocabulary.
func (k keyMap) lightboxKey(pressed tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(pressed, k.Close):
		return gallery.KeyEscape, true
	case key.Matches(pressed, k.NextImage):
		return gallery.KeyArrowRight, true
	case key.Matches(pressed, k.PrevImage):
		return gallery.KeyArrowLeft, true
	default:
		return "", false
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFilter, k.NextPage, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextFilter, k.PrevFilter, k.NextPage, k.PrevPage},
		{k.Up, k.Down, k.Open, k.Reload},
		{k.Close, k.NextImage, k.PrevImage},
		{k.Help, k.Quit},
	}
}
