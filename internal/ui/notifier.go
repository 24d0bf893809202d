package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dwellingly/dwellingly-cli/internal/properties"
)

type toastMsg struct {
	level string
	text  string
}

type note struct {
	text  string
	level properties.Level
}

// noteQueue collects controller notifications during an Update and hands
// them to the app as toast messages afterwards.
type noteQueue struct {
	pending []note
}

func (q *noteQueue) Notify(message string, level properties.Level) {
	q.pending = append(q.pending, note{text: message, level: level})
}

// flush returns one toast command per pending note.
func (q *noteQueue) flush() tea.Cmd {
	if len(q.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(q.pending))
	for _, n := range q.pending {
		msg := toastMsg{level: string(n.level), text: n.text}
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	q.pending = nil
	return tea.Batch(cmds...)
}
