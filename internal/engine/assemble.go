package engine

import "sort"

// Role is who authored a message.
type Role string

const (
	RoleUnknown   Role = ""
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// orderedParts returns a message's parts sorted by insertion order.
func orderedParts(parts map[string]*PartSnapshot) []*PartSnapshot {
	out := make([]*PartSnapshot, 0, len(parts))
	for _, p := range parts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// assembleText derives a message's display text from its parts.
//
// Assistant text is a moving "current" value: the most recently ordered text
// part wins outright. User text instead takes the longest part, so a short
// echo or acknowledgement part cannot clobber the text the user actually
// wrote.
func assembleText(parts []*PartSnapshot, role Role) string {
	var text string
	for _, p := range parts {
		if p.Kind != PartText || p.Synthetic || p.Ignored || p.Text == "" {
			continue
		}
		switch role {
		case RoleUser:
			if len(p.Text) > len(text) {
				text = p.Text
			}
		default:
			// Parts arrive in Seq order, so the last hit is the newest.
			text = p.Text
		}
	}
	return text
}

// resolveRole decides a message's role from an explicit field, the cached
// value, or inference from part kinds. Only the assistant produces text,
// reasoning or tool parts without an explicit role; everything else stays
// unresolved and the message remains invisible.
func resolveRole(explicit string, cached Role, parts []*PartSnapshot) Role {
	switch explicit {
	case "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	}
	if cached != RoleUnknown {
		return cached
	}
	for _, p := range parts {
		switch p.RoleHint {
		case "user":
			return RoleUser
		case "assistant":
			return RoleAssistant
		}
		switch p.Kind {
		case PartText, PartReasoning, PartTool:
			return RoleAssistant
		}
	}
	return RoleUnknown
}

// surfaceable reports whether a message has enough content to appear in the
// timeline: non-empty display text, or, for the assistant, a renderable
// non-text part, which lets tool and reasoning activity show before any text
// exists.
func surfaceable(role Role, text string, parts []*PartSnapshot) bool {
	if role == RoleUnknown {
		return false
	}
	if text != "" {
		return true
	}
	if role != RoleAssistant {
		return false
	}
	for _, p := range parts {
		if p.Synthetic || p.Ignored {
			continue
		}
		switch p.Kind {
		case PartTool, PartSubtask:
			return true
		case PartReasoning:
			if p.Text != "" {
				return true
			}
		}
	}
	return false
}
