package trigger

import (
	"reflect"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap binds palette navigation. It is consulted only while the palette
// is open.
type KeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	First   key.Binding
	Last    key.Binding
	Accept  key.Binding
	Dismiss key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next command")),
		Prev:    key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous command")),
		First:   key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first command")),
		Last:    key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last command")),
		Accept:  key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "run command")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close palette")),
	}
}

// NormalizeKeyMap returns the default map for a zero value.
func NormalizeKeyMap(km KeyMap) KeyMap {
	if reflect.DeepEqual(km, KeyMap{}) {
		return DefaultKeyMap()
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Next, km.Prev, km.Accept, km.Dismiss}
}

// FullHelp implements help.KeyMap.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{km.ShortHelp(), {km.First, km.Last}}
}

// HandleKey applies msg to an open palette. handled is false when the
// palette is closed or the key is not a palette key, in which case the
// caller should treat it as an editing key.
func (t *Trigger) HandleKey(km KeyMap, msg tea.KeyMsg) (handled bool, err error) {
	if !t.st.Open {
		return false, nil
	}
	switch {
	case key.Matches(msg, km.Dismiss):
		t.Dismiss()
	case key.Matches(msg, km.Next):
		t.Next()
	case key.Matches(msg, km.Prev):
		t.Prev()
	case key.Matches(msg, km.First):
		t.First()
	case key.Matches(msg, km.Last):
		t.Last()
	case key.Matches(msg, km.Accept):
		err = t.Accept()
	default:
		return false, nil
	}
	return true, err
}
