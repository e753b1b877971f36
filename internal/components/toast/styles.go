package toast

import (
	"github.com/charmbracelet/lipgloss"

	"weft/internal/styles"
)

// renderToast renders a single toast notification
func renderToast(toast Toast, maxWidth int) string {
	theme := styles.GetCurrentTheme()

	var bgColor, fgColor lipgloss.Color
	var icon string

	switch toast.Type {
	case ToastSuccess:
		bgColor = theme.Success
		fgColor = lipgloss.Color("#FFFFFF")
		icon = "✓"
	case ToastWarning:
		bgColor = theme.Warning
		fgColor = lipgloss.Color("#000000")
		icon = "⚠"
	case ToastError:
		bgColor = theme.Error
		fgColor = lipgloss.Color("#FFFFFF")
		icon = "✗"
	default:
		bgColor = theme.Info
		fgColor = lipgloss.Color("#FFFFFF")
		icon = "ℹ"
	}

	toastWidth := 60
	if maxWidth > 0 {
		if max := int(float64(maxWidth) * 0.8); max < toastWidth {
			toastWidth = max
		}
	}
	if toastWidth < 20 {
		toastWidth = 20
	}

	style := lipgloss.NewStyle().
		Background(bgColor).
		Foreground(fgColor).
		Padding(0, 2).
		Width(toastWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bgColor).
		Bold(true)

	return style.Render(icon + " " + toast.Message)
}
