package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI
type Theme struct {
	Name           string
	Primary        lipgloss.Color
	Secondary      lipgloss.Color
	Border         lipgloss.Color
	Success        lipgloss.Color
	Error          lipgloss.Color
	Warning        lipgloss.Color
	Info           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	CodeBackground lipgloss.Color
}

var (
	currentTheme *Theme

	themes = map[string]*Theme{
		"default": {
			Name:           "Default (Dark)",
			Primary:        lipgloss.Color("#7C3AED"), // Violet
			Secondary:      lipgloss.Color("#10B981"), // Emerald
			Border:         lipgloss.Color("#334155"), // Slate 700
			Success:        lipgloss.Color("#10B981"),
			Error:          lipgloss.Color("#EF4444"),
			Warning:        lipgloss.Color("#F59E0B"),
			Info:           lipgloss.Color("#3B82F6"),
			Muted:          lipgloss.Color("#6B7280"),
			Accent:         lipgloss.Color("#EC4899"),
			TextPrimary:    lipgloss.Color("#FFFFFF"),
			TextSecondary:  lipgloss.Color("#E5E7EB"),
			CodeBackground: lipgloss.Color("#1E293B"),
		},
		"light": {
			Name:           "Light",
			Primary:        lipgloss.Color("#7C3AED"),
			Secondary:      lipgloss.Color("#059669"),
			Border:         lipgloss.Color("#CBD5E1"),
			Success:        lipgloss.Color("#059669"),
			Error:          lipgloss.Color("#DC2626"),
			Warning:        lipgloss.Color("#D97706"),
			Info:           lipgloss.Color("#2563EB"),
			Muted:          lipgloss.Color("#64748B"),
			Accent:         lipgloss.Color("#DB2777"),
			TextPrimary:    lipgloss.Color("#0F172A"),
			TextSecondary:  lipgloss.Color("#475569"),
			CodeBackground: lipgloss.Color("#F1F5F9"),
		},
	}
)

// GetCurrentTheme returns the active theme
func GetCurrentTheme() *Theme {
	if currentTheme == nil {
		currentTheme = themes["default"]
	}
	return currentTheme
}

// SetTheme switches the active theme by name, returning false if unknown
func SetTheme(name string) bool {
	theme, ok := themes[name]
	if !ok {
		return false
	}
	currentTheme = theme
	return true
}

// ThemeNames returns the available theme names
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	return names
}

// Style helper functions that use the current theme
func PrimaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GetCurrentTheme().Primary)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GetCurrentTheme().Error)
}

func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GetCurrentTheme().Success)
}

func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GetCurrentTheme().Warning)
}

func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GetCurrentTheme().Muted)
}

// Message styles

func UserLabel() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Primary).
		Bold(true)
}

func AssistantLabel() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Secondary).
		Bold(true)
}

func PendingMarker() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Muted).
		Italic(true)
}

// Tool activity styles

func ToolEvent() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Muted).
		Italic(true).
		PaddingLeft(2)
}

func ToolName() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Primary).
		Bold(true)
}

// Status bar styles

func StatusBar() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Muted).
		Padding(0, 1)
}

func StatusBarWorking() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Primary).
		Padding(0, 1)
}

func StatusBarError() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Error).
		Padding(0, 1)
}

// Header style
func Header() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(GetCurrentTheme().Primary).
		Bold(true).
		Padding(0, 1)
}
