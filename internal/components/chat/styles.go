package chat

import (
	"github.com/charmbracelet/lipgloss"

	"weft/internal/styles"
)

func userBody() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(styles.GetCurrentTheme().TextPrimary).
		Bold(true)
}

func emptyState() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.GetCurrentTheme().Muted).
		Italic(true).
		Padding(1, 2)
}
