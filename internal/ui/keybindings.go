package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

// --- Key Maps ---

type appKeyMap struct {
	Quit     key.Binding
	ForceQ   key.Binding
	NextView key.Binding
	PrevView key.Binding
}

var appKeys = appKeyMap{
	Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
	ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	NextView: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "Next View")),
	PrevView: key.NewBinding(key.WithKeys("shift+tab", "left")),
}

type propertiesKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Toggle       key.Binding
	SelectAll    key.Binding
	DeselectAll  key.Binding
	Archive      key.Binding
	ShowArchived key.Binding
	Search       key.Binding
	ClearSearch  key.Binding
	Sort         key.Binding
	SortDir      key.Binding
	Reload       key.Binding
}

func newPropertiesKeys() propertiesKeyMap {
	return propertiesKeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "Move")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
		Top:          key.NewBinding(key.WithKeys("home", "g")),
		Bottom:       key.NewBinding(key.WithKeys("end", "G")),
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "Select")),
		SelectAll:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "All")),
		DeselectAll:  key.NewBinding(key.WithKeys("A", "c"), key.WithHelp("c", "Clear")),
		Archive:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Archive")),
		ShowArchived: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "Archived")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Search")),
		ClearSearch:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Clear Search")),
		Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s/S", "Sort")),
		SortDir:      key.NewBinding(key.WithKeys("S")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reload")),
	}
}

type issuesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

var issuesKeys = issuesKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "Move")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Choose: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "Choose")),
}
