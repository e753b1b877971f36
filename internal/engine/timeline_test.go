package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(t *timeline) []string {
	out := make([]string, len(t.entries))
	for i, m := range t.entries {
		out[i] = m.ID
	}
	return out
}

func TestTimelineInsertSorted(t *testing.T) {
	var tl timeline
	for _, id := range []string{"msg_c", "msg_a", "msg_d", "msg_b"} {
		tl.insert(&TimelineMessage{ID: id})
	}
	assert.Equal(t, []string{"msg_a", "msg_b", "msg_c", "msg_d"}, ids(&tl))
}

func TestTimelineInsertReplacesSameID(t *testing.T) {
	var tl timeline
	tl.insert(&TimelineMessage{ID: "msg_a", Text: "old"})
	tl.insert(&TimelineMessage{ID: "msg_a", Text: "new"})

	require.Len(t, tl.entries, 1)
	assert.Equal(t, "new", tl.entries[0].Text)
}

func TestTimelineGetRemove(t *testing.T) {
	var tl timeline
	tl.insert(&TimelineMessage{ID: "msg_a"})
	tl.insert(&TimelineMessage{ID: "msg_b"})

	require.NotNil(t, tl.get("msg_a"))
	assert.Nil(t, tl.get("msg_x"))

	assert.True(t, tl.remove("msg_a"))
	assert.False(t, tl.remove("msg_a"))
	assert.Equal(t, []string{"msg_b"}, ids(&tl))
}

func TestTimelinePendingFor(t *testing.T) {
	var tl timeline
	tl.insert(&TimelineMessage{ID: "msg_a", Role: RoleUser})
	tl.insert(&TimelineMessage{ID: "msg_b", Role: RoleUser, Pending: true})
	tl.insert(&TimelineMessage{ID: "msg_c", Role: RoleAssistant})

	p := tl.pendingFor(RoleUser)
	require.NotNil(t, p)
	assert.Equal(t, "msg_b", p.ID)
	assert.Nil(t, tl.pendingFor(RoleAssistant))

	tl.clear()
	assert.Empty(t, tl.entries)
}
