package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToolStatusCanonical(t *testing.T) {
	for _, want := range []ToolStatus{
		ToolInputStreaming, ToolInputAvailable, ToolApprovalRequested,
		ToolApprovalResponded, ToolOutputAvailable, ToolOutputError, ToolOutputDenied,
	} {
		got := ResolveToolStatus(&PartSnapshot{ToolState: string(want)})
		assert.Equal(t, want, got)
	}
}

func TestResolveToolStatusFallbacks(t *testing.T) {
	assert.Equal(t, ToolOutputError,
		ResolveToolStatus(&PartSnapshot{ToolState: "exploded", ErrorText: "boom"}))
	assert.Equal(t, ToolOutputAvailable,
		ResolveToolStatus(&PartSnapshot{Output: "result"}))
	assert.Equal(t, ToolInputAvailable,
		ResolveToolStatus(&PartSnapshot{ToolState: "streaming", Input: map[string]interface{}{"x": 1}}))
	assert.Equal(t, ToolInputStreaming,
		ResolveToolStatus(&PartSnapshot{ToolState: "warming-up", Input: map[string]interface{}{"x": 1}}),
		"input alone does not promote an unrecognized status")
	assert.Equal(t, ToolInputStreaming,
		ResolveToolStatus(&PartSnapshot{}))
}

func TestToolStatusActive(t *testing.T) {
	active := []ToolStatus{ToolInputStreaming, ToolInputAvailable, ToolApprovalRequested, ToolApprovalResponded}
	terminal := []ToolStatus{ToolOutputAvailable, ToolOutputError, ToolOutputDenied}

	for _, s := range active {
		assert.True(t, s.Active(), string(s))
	}
	for _, s := range terminal {
		assert.False(t, s.Active(), string(s))
	}
}

func TestActiveTools(t *testing.T) {
	s := newPartStore()

	s.apply(&PartUpdate{MessageID: "m1", PartID: "t1", Kind: PartTool, Tool: "bash", ToolStatus: "input-available", Title: strp("Run tests")})
	s.apply(&PartUpdate{MessageID: "m1", PartID: "t2", Kind: PartTool, Tool: "read", ToolStatus: "output-available"})
	s.apply(&PartUpdate{MessageID: "m2", PartID: "t3", Kind: PartTool, Tool: "edit", ToolStatus: "approval-requested"})
	s.apply(&PartUpdate{MessageID: "m2", PartID: "t4", Kind: PartTool, Tool: "grep", ToolStatus: "input-streaming", Ignored: boolp(true)})
	s.apply(&PartUpdate{MessageID: "m2", PartID: "x1", Kind: PartText, Delta: "not a tool"})

	tools := activeTools(s)
	require.Len(t, tools, 2, "terminal, ignored and non-tool parts are excluded")

	// Insertion order across messages.
	assert.Equal(t, "bash", tools[0].Name)
	assert.Equal(t, ToolInputAvailable, tools[0].Status)
	assert.Equal(t, "Run tests", tools[0].Title)
	assert.Equal(t, "edit", tools[1].Name)
	assert.Equal(t, ToolApprovalRequested, tools[1].Status)
}

func TestActiveToolsCompletionDrops(t *testing.T) {
	s := newPartStore()

	s.apply(&PartUpdate{MessageID: "m", PartID: "t", Kind: PartTool, Tool: "bash", ToolStatus: "input-streaming"})
	require.Len(t, activeTools(s), 1)

	s.apply(&PartUpdate{MessageID: "m", PartID: "t", ToolStatus: "output-available", Output: strp("done")})
	assert.Empty(t, activeTools(s))
}

func boolp(b bool) *bool { return &b }
