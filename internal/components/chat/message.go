package chat

import (
	"strings"
	"unicode/utf8"

	"weft/internal/engine"
	"weft/internal/styles"
)

// renderMessage renders one timeline entry: a role label, the message body,
// and any tool or reasoning activity attached to it.
func renderMessage(m engine.Message, width int, showThinking bool) string {
	var b strings.Builder

	switch m.Role {
	case engine.RoleUser:
		label := styles.UserLabel().Render("You")
		if m.Pending {
			label += " " + styles.PendingMarker().Render("(sending...)")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(userBody().Render(m.Text))

	case engine.RoleAssistant:
		b.WriteString(styles.AssistantLabel().Render("Assistant"))
		b.WriteString("\n")

		if showThinking {
			if reasoning := reasoningText(m); reasoning != "" {
				b.WriteString(styles.MutedStyle().Italic(true).PaddingLeft(1).Render(reasoning))
				b.WriteString("\n")
			}
		}

		for _, line := range toolLines(m) {
			b.WriteString(line)
			b.WriteString("\n")
		}

		if m.Text != "" {
			b.WriteString(RenderMarkdown(m.Text))
		}
	}

	return b.String()
}

func reasoningText(m engine.Message) string {
	var parts []string
	for _, p := range m.Parts {
		if p.Kind == engine.PartReasoning && p.Text != "" && !p.Ignored {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// toolLines renders one status line per tool part, in part order.
func toolLines(m engine.Message) []string {
	var lines []string
	for _, p := range m.Parts {
		if p.Kind != engine.PartTool || p.Ignored {
			continue
		}

		name := p.Tool
		if name == "" {
			name = "tool"
		}
		label := styles.ToolName().Render(name)
		if p.Title != "" {
			label += " " + styles.MutedStyle().Render(p.Title)
		}

		status := engine.ResolveToolStatus(&p)
		var badge string
		switch status {
		case engine.ToolOutputAvailable:
			badge = styles.SuccessStyle().Render("✓")
		case engine.ToolOutputError:
			badge = styles.ErrorStyle().Render("✗")
		case engine.ToolOutputDenied:
			badge = styles.WarningStyle().Render("⊘")
		case engine.ToolApprovalRequested:
			badge = styles.WarningStyle().Render("?")
		default:
			badge = styles.MutedStyle().Render("…")
		}

		line := styles.ToolEvent().Render(badge + " " + label)
		lines = append(lines, line)

		if status == engine.ToolOutputError && p.ErrorText != "" {
			lines = append(lines, styles.ErrorStyle().PaddingLeft(4).Render(truncate(p.ErrorText, 120)))
		}
	}
	return lines
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so a multibyte character is never split.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
