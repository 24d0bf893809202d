package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RadioOption is one choice in a radio group.
type RadioOption struct {
	Value string
	Label string
}

var (
	radioOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2e9e83")).
			Bold(true)
	radioOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	radioCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530"))
)

// RadioGroup renders options one per line. selected is the chosen value (""
// for none) and cursor the highlighted row.
func RadioGroup(options []RadioOption, selected string, cursor int, width int) string {
	lines := make([]string, 0, len(options))
	for i, opt := range options {
		mark := radioOffStyle.Render("( )")
		if opt.Value != "" && opt.Value == selected {
			mark = radioOnStyle.Render("(•)")
		}
		label := SanitizeOneLine(opt.Label)
		if width > 4 {
			label = ClampTextWidth(label, width-4)
		}
		if i == cursor {
			label = radioCursorStyle.Render(label)
		}
		lines = append(lines, mark+" "+label)
	}
	return strings.Join(lines, "\n")
}

// RadioValueAt returns the value at index i, or "" when out of range.
func RadioValueAt(options []RadioOption, i int) string {
	if i < 0 || i >= len(options) {
		return ""
	}
	return options[i].Value
}
