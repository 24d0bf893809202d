package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type modalEvent string

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModal(events *[]string) *Modal {
	emit := func(name string) func() tea.Cmd {
		return func() tea.Cmd {
			*events = append(*events, name)
			return func() tea.Msg { return modalEvent(name) }
		}
	}
	return &Modal{
		TitleText:   "Archive Property",
		Content:     "Are you sure?",
		HasButtons:  true,
		ConfirmText: "Archive",
		CancelText:  "Cancel",
		OnConfirm:   emit("confirm"),
		OnCancel:    emit("cancel"),
		OnClose:     emit("close"),
	}
}

func TestModalRenderIncludesTitleContentAndButtons(t *testing.T) {
	var events []string
	m := newTestModal(&events)
	clean := SanitizeText(m.Render(100))

	assert.Contains(t, clean, "Archive Property")
	assert.Contains(t, clean, "Are you sure?")
	assert.Contains(t, clean, "Archive")
	assert.Contains(t, clean, "Cancel")
	assert.Contains(t, clean, "y: confirm | n: cancel | esc: close")
}

func TestModalKeysRouteToCallbacks(t *testing.T) {
	var events []string
	m := newTestModal(&events)

	cmd := m.Handle(runeKey('y'))
	if assert.NotNil(t, cmd) {
		assert.Equal(t, modalEvent("confirm"), cmd())
	}
	m.Handle(runeKey('n'))
	m.Handle(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, []string{"confirm", "cancel", "close"}, events)
}

func TestModalEnterPressesFocusedButton(t *testing.T) {
	var events []string
	m := newTestModal(&events)

	assert.True(t, m.ConfirmFocused())
	m.Handle(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.ConfirmFocused())
	m.Handle(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"cancel"}, events)
}

func TestModalBusyIgnoresConfirm(t *testing.T) {
	var events []string
	m := newTestModal(&events)
	m.Busy = true
	m.BusyText = "Archiving..."

	assert.Nil(t, m.Handle(runeKey('y')))
	assert.Nil(t, m.Handle(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Empty(t, events)
	assert.Contains(t, SanitizeText(m.Render(100)), "Archiving...")

	m.Handle(runeKey('n'))
	assert.Equal(t, []string{"cancel"}, events)
}

func TestModalCloseFallsBackToCancel(t *testing.T) {
	var events []string
	m := newTestModal(&events)
	m.OnClose = nil

	m.Handle(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"cancel"}, events)
}

func TestModalWithoutButtonsClosesOnEnter(t *testing.T) {
	var events []string
	m := newTestModal(&events)
	m.HasButtons = false

	assert.Nil(t, m.Handle(runeKey('y')))
	m.Handle(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"close"}, events)
	assert.NotContains(t, SanitizeText(m.Render(100)), "y: confirm")
}
