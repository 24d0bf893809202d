package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2e9e83")).
			Bold(true)

	modalBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(0, 2)

	buttonFocusedStyle = buttonStyle.
				Foreground(lipgloss.Color("#16161d")).
				Background(lipgloss.Color("#2e9e83")).
				BorderForeground(lipgloss.Color("#2e9e83")).
				Bold(true)

	buttonDangerStyle = buttonFocusedStyle.
				Background(lipgloss.Color("#d1606b")).
				BorderForeground(lipgloss.Color("#d1606b"))

	modalHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
)

// ModalKeyMap binds the modal's actions.
type ModalKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Close   key.Binding
	Toggle  key.Binding
	Press   key.Binding
}

// DefaultModalKeys is the binding set used when a Modal has none.
var DefaultModalKeys = ModalKeyMap{
	Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
	Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Toggle:  key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right", "h", "l")),
	Press:   key.NewBinding(key.WithKeys("enter", " ")),
}

// Modal is a titled dialog with optional confirm and cancel buttons.
//
// Handle returns whatever command the matching callback produces. While Busy
// the confirm path is ignored, so a second confirm cannot start a second
// request; cancel and close still work.
type Modal struct {
	TitleText   string
	Content     string
	HasButtons  bool
	ConfirmText string
	CancelText  string
	Danger      bool
	Busy        bool
	BusyText    string

	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
	OnClose   func() tea.Cmd

	Keys ModalKeyMap

	// focus 0 is confirm, 1 is cancel.
	focus int
}

// FocusCancel moves button focus to cancel.
func (m *Modal) FocusCancel() { m.focus = 1 }

// FocusConfirm moves button focus to confirm.
func (m *Modal) FocusConfirm() { m.focus = 0 }

// ConfirmFocused reports whether the confirm button has focus.
func (m *Modal) ConfirmFocused() bool { return m.focus == 0 }

func (m *Modal) keys() ModalKeyMap {
	if len(m.Keys.Confirm.Keys()) == 0 {
		return DefaultModalKeys
	}
	return m.Keys
}

// Handle routes a key press to the modal's callbacks.
func (m *Modal) Handle(msg tea.KeyMsg) tea.Cmd {
	keys := m.keys()
	switch {
	case key.Matches(msg, keys.Close):
		return m.close()
	case !m.HasButtons:
		if key.Matches(msg, keys.Press) {
			return m.close()
		}
		return nil
	case key.Matches(msg, keys.Confirm):
		return m.confirm()
	case key.Matches(msg, keys.Cancel):
		return m.cancel()
	case key.Matches(msg, keys.Toggle):
		m.focus = 1 - m.focus
		return nil
	case key.Matches(msg, keys.Press):
		if m.focus == 0 {
			return m.confirm()
		}
		return m.cancel()
	}
	return nil
}

func (m *Modal) confirm() tea.Cmd {
	if m.Busy || m.OnConfirm == nil {
		return nil
	}
	return m.OnConfirm()
}

func (m *Modal) cancel() tea.Cmd {
	if m.OnCancel == nil {
		return nil
	}
	return m.OnCancel()
}

func (m *Modal) close() tea.Cmd {
	if m.OnClose != nil {
		return m.OnClose()
	}
	return m.cancel()
}

// Render draws the modal at the standard box width for the terminal.
func (m *Modal) Render(width int) string {
	var b strings.Builder
	if title := SanitizeOneLine(m.TitleText); title != "" {
		b.WriteString(modalTitleStyle.Render(title))
		b.WriteString("\n\n")
	}
	inner := BoxContentWidth(width)
	body := SanitizeText(m.Content)
	if inner > 0 {
		body = lipgloss.NewStyle().Width(inner).Render(body)
	}
	b.WriteString(modalBodyStyle.Render(body))

	if m.HasButtons {
		b.WriteString("\n\n")
		b.WriteString(m.renderButtons())
	}

	keys := m.keys()
	hint := keys.Close.Help().Key + ": " + keys.Close.Help().Desc
	if m.HasButtons {
		hint = keys.Confirm.Help().Key + ": " + keys.Confirm.Help().Desc + " | " +
			keys.Cancel.Help().Key + ": " + keys.Cancel.Help().Desc + " | " + hint
	}
	b.WriteString("\n")
	b.WriteString(modalHintStyle.Render(hint))

	return ActiveBox(b.String(), width)
}

func (m *Modal) renderButtons() string {
	confirmText := m.ConfirmText
	if confirmText == "" {
		confirmText = "OK"
	}
	if m.Busy && m.BusyText != "" {
		confirmText = m.BusyText
	}
	cancelText := m.CancelText
	if cancelText == "" {
		cancelText = "Cancel"
	}

	confirmStyle, cancelStyle := buttonStyle, buttonStyle
	if m.focus == 0 {
		confirmStyle = buttonFocusedStyle
		if m.Danger {
			confirmStyle = buttonDangerStyle
		}
	} else {
		cancelStyle = buttonFocusedStyle
	}
	if m.Busy {
		confirmStyle = buttonStyle.Faint(true)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		confirmStyle.Render(confirmText),
		" ",
		cancelStyle.Render(cancelText),
	)
}
