package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var bannerLines = []string{
	"     _               _ _ _             _      ",
	"  __| |_      _____| | (_)_ __   __ _| |_   _ ",
	" / _' \\ \\ /\\ / / _ \\ | | | '_ \\ / _' | | | | |",
	"| (_| |\\ V  V /  __/ | | | | | | (_| | | |_| |",
	" \\__,_| \\_/\\_/ \\___|_|_|_|_| |_|\\__, |_|\\__, |",
	"                                |___/   |___/ ",
}

const bannerSubtitle = "Property Administration • Command-Line Interface"

// RenderBanner returns the styled banner with its centered subtitle.
func RenderBanner() string {
	baseStyle := lipgloss.NewStyle().Foreground(ColorPrimary)

	maxWidth := 0
	for _, line := range bannerLines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, line := range bannerLines {
		b.WriteString(baseStyle.Render(line))
		b.WriteString("\n")
	}

	subtitleWidth := lipgloss.Width(bannerSubtitle)
	blockWidth := maxWidth
	if blockWidth < subtitleWidth {
		blockWidth = subtitleWidth
	}

	subtitle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)

	underline := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", subtitleWidth))

	return "\n" + b.String() + "\n" + subtitle + "\n" + underline + "\n"
}

// compactBanner is used when the terminal is too narrow for the art.
func compactBanner() string {
	return lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render("dwellingly")
}
