package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/ui/components"
)

var issueValues = []string{"noise", "maintenance", "safety", "neighbor", "other"}

// IssuesModel owns the chosen issue; the radio group only renders it.
type IssuesModel struct {
	tr       i18n.Translator
	options  []components.RadioOption
	cursor   int
	selected string

	width int
}

// NewIssuesModel builds the issue selector from the message catalog.
func NewIssuesModel(tr i18n.Translator) IssuesModel {
	options := make([]components.RadioOption, 0, len(issueValues))
	for _, v := range issueValues {
		options = append(options, components.RadioOption{Value: v, Label: tr.T("issues.option." + v)})
	}
	return IssuesModel{tr: tr, options: options}
}

func (m IssuesModel) Init() tea.Cmd { return nil }

// Selected returns the chosen issue value, "" when none.
func (m IssuesModel) Selected() string { return m.selected }

func (m IssuesModel) Update(msg tea.Msg) (IssuesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, issuesKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, issuesKeys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, issuesKeys.Choose):
		m.selected = components.RadioValueAt(m.options, m.cursor)
	}
	return m, nil
}

func (m IssuesModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.tr.T("issues.heading")))
	b.WriteString("\n")
	b.WriteString(components.RadioGroup(m.options, m.selected, m.cursor, components.BoxContentWidth(m.width)))
	b.WriteString("\n\n")
	if label := m.selectedLabel(); label != "" {
		b.WriteString(NormalStyle.Render(m.tr.T("issues.selected", label)))
	} else {
		b.WriteString(MutedStyle.Render(m.tr.T("issues.none")))
	}
	return components.TitledBox(m.tr.T("issues.title"), b.String(), m.width)
}

func (m IssuesModel) selectedLabel() string {
	for _, o := range m.options {
		if o.Value == m.selected {
			return o.Label
		}
	}
	return ""
}

func (m IssuesModel) hints() []string {
	return components.BindingHints(issuesKeys.Up, issuesKeys.Choose)
}
