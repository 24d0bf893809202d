package ui

import (
	"strings"

	"github.com/dwellingly/dwellingly-cli/internal/i18n"
	"github.com/dwellingly/dwellingly-cli/internal/ui/components"
)

// NotFoundModel is shown for a view name the app does not know.
type NotFoundModel struct {
	tr    i18n.Translator
	name  string
	width int
}

func NewNotFoundModel(tr i18n.Translator, name string) NotFoundModel {
	return NotFoundModel{tr: tr, name: name}
}

func (m NotFoundModel) View() string {
	lines := []string{
		ErrorStyle.Render(m.tr.T("core.notfound.heading")),
		"",
		NormalStyle.Render(m.tr.T("core.notfound.text")),
	}
	if m.name != "" {
		lines = append(lines, "", MutedStyle.Render(m.tr.T("core.notfound.view", components.SanitizeOneLine(m.name))))
	}
	return components.Box(strings.Join(lines, "\n"), m.width)
}
