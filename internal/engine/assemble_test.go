package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func textPart(id string, seq int, text string) *PartSnapshot {
	return &PartSnapshot{PartID: id, Kind: PartText, Text: text, Seq: seq}
}

func TestAssembleAssistantLatestWins(t *testing.T) {
	parts := []*PartSnapshot{
		textPart("p1", 0, "first draft that is quite long"),
		textPart("p2", 1, "final"),
	}
	assert.Equal(t, "final", assembleText(parts, RoleAssistant))
}

func TestAssembleUserLongestWins(t *testing.T) {
	parts := []*PartSnapshot{
		textPart("p1", 0, "the full prompt the user typed"),
		textPart("p2", 1, "ack"),
	}
	assert.Equal(t, "the full prompt the user typed", assembleText(parts, RoleUser))
}

func TestAssembleSkipsSyntheticIgnoredEmpty(t *testing.T) {
	parts := []*PartSnapshot{
		{PartID: "p1", Kind: PartText, Text: "injected", Synthetic: true, Seq: 0},
		{PartID: "p2", Kind: PartText, Text: "hidden", Ignored: true, Seq: 1},
		{PartID: "p3", Kind: PartReasoning, Text: "thinking", Seq: 2},
		textPart("p4", 3, ""),
		textPart("p5", 4, "visible"),
	}
	assert.Equal(t, "visible", assembleText(parts, RoleAssistant))
}

func TestResolveRole(t *testing.T) {
	toolParts := []*PartSnapshot{{PartID: "p", Kind: PartTool, Seq: 0}}
	hinted := []*PartSnapshot{{PartID: "p", Kind: PartText, RoleHint: "user", Seq: 0}}
	filePart := []*PartSnapshot{{PartID: "p", Kind: "file", Seq: 0}}

	// Explicit beats everything.
	assert.Equal(t, RoleUser, resolveRole("user", RoleAssistant, toolParts))
	// Cached beats inference.
	assert.Equal(t, RoleUser, resolveRole("", RoleUser, toolParts))
	// Part-level hint.
	assert.Equal(t, RoleUser, resolveRole("", RoleUnknown, hinted))
	// Text, reasoning and tool parts imply the assistant.
	assert.Equal(t, RoleAssistant, resolveRole("", RoleUnknown, toolParts))
	// Anything else stays unresolved.
	assert.Equal(t, RoleUnknown, resolveRole("", RoleUnknown, filePart))
	assert.Equal(t, RoleUnknown, resolveRole("", RoleUnknown, nil))
}

func TestSurfaceable(t *testing.T) {
	tool := []*PartSnapshot{{PartID: "p", Kind: PartTool, Seq: 0}}
	reasoning := []*PartSnapshot{{PartID: "p", Kind: PartReasoning, Text: "mull", Seq: 0}}
	emptyReasoning := []*PartSnapshot{{PartID: "p", Kind: PartReasoning, Seq: 0}}
	ignoredTool := []*PartSnapshot{{PartID: "p", Kind: PartTool, Ignored: true, Seq: 0}}

	assert.False(t, surfaceable(RoleUnknown, "text", tool), "unresolved role never surfaces")
	assert.True(t, surfaceable(RoleUser, "hi", nil))
	assert.False(t, surfaceable(RoleUser, "", tool), "user messages need text")
	assert.True(t, surfaceable(RoleAssistant, "", tool), "tool activity surfaces before text")
	assert.True(t, surfaceable(RoleAssistant, "", reasoning))
	assert.False(t, surfaceable(RoleAssistant, "", emptyReasoning))
	assert.False(t, surfaceable(RoleAssistant, "", ignoredTool))
	assert.False(t, surfaceable(RoleAssistant, "", nil))
}
