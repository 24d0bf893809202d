package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panels take 70% of the terminal, clamped to [panelMinWidth, panelMaxWidth]
// and never wider than the terminal itself.
const (
	panelMinWidth = 40
	panelMaxWidth = 80
)

var (
	panelEdge       = lipgloss.Color("#273540")
	panelEdgeActive = lipgloss.Color("#2e9e83")
	panelEdgeError  = lipgloss.Color("#7a2f3a")

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2e9e83")).
			Bold(true)

	panelErrorTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	panelErrorBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d6b5b5"))

	infoLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))

	infoValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))
)

type panel struct {
	edge  lipgloss.Color
	title lipgloss.Style
}

var (
	plainPanel  = panel{edge: panelEdge, title: panelTitleStyle}
	activePanel = panel{edge: panelEdgeActive, title: panelTitleStyle}
	errorPanel  = panel{edge: panelEdgeError, title: panelErrorTitleStyle}
)

func panelFrame(edge lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(edge).
		Padding(1, 2)
}

// panelWidth is the outer width, border included, of a panel drawn on a
// terminal termWidth columns wide. Zero means unconstrained.
func panelWidth(termWidth int) int {
	if termWidth <= 0 {
		return 0
	}
	w := min(max(termWidth*70/100, panelMinWidth), panelMaxWidth)
	return min(w, termWidth)
}

// render draws content in the panel. A titled panel carries its title
// inside the top border.
func (p panel) render(title, content string, termWidth int) string {
	frame := panelFrame(p.edge)
	// lipgloss widths exclude the border, so it is taken off the outer width.
	if w := panelWidth(termWidth) - frame.GetHorizontalBorderSize(); w > frame.GetHorizontalPadding() {
		frame = frame.Width(w)
	}
	boxed := frame.Render(content)
	if title = SanitizeOneLine(title); title == "" {
		return boxed
	}
	return p.titleEdge(boxed, title)
}

func (p panel) titleEdge(boxed, title string) string {
	lines := strings.Split(boxed, "\n")
	span := lipgloss.Width(lines[0]) - 2
	if span < 2 {
		return boxed
	}
	label := ansi.Truncate(" [ "+title+" ] ", span, "")
	left := (span - lipgloss.Width(label)) / 2
	right := span - lipgloss.Width(label) - left

	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(p.edge)
	lines[0] = edge.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		p.title.Render(label) +
		edge.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

// Box renders content in a plain panel sized for the terminal.
func Box(content string, width int) string {
	return plainPanel.render("", content, width)
}

// TitledBox is Box with a title set into the top border.
func TitledBox(title, content string, width int) string {
	return plainPanel.render(title, content, width)
}

// ActiveBox renders content in a highlighted panel, used for dialogs.
func ActiveBox(content string, width int) string {
	return activePanel.render("", content, width)
}

// ErrorBox renders message in a red panel titled title.
func ErrorBox(title, message string, width int) string {
	return errorPanel.render(title, panelErrorBodyStyle.Render(message), width)
}

// BoxContentWidth is the width available to text inside a panel drawn on a
// terminal width columns wide.
func BoxContentWidth(width int) int {
	w := panelWidth(width)
	if w <= 0 {
		return 0
	}
	return max(w-panelFrame(panelEdge).GetHorizontalFrameSize(), 0)
}

// ClampTextWidth flattens text to one line and cuts it to width columns.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 {
		return cleaned
	}
	return ansi.Truncate(cleaned, width, "")
}

// InfoRow renders a "label: value" detail line.
func InfoRow(label, value string) string {
	return infoLabelStyle.Render(SanitizeOneLine(label)+": ") + infoValueStyle.Render(SanitizeOneLine(value))
}
