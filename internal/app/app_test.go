package app

import (
	"strings"
	"testing"

	"weft/sdk/agent"
)

func TestNextSessionCycles(t *testing.T) {
	m := New(Options{})
	t.Cleanup(m.Close)

	m.sessions = []agent.Session{{ID: "ses_a"}, {ID: "ses_b"}, {ID: "ses_c"}}
	m.session = &m.sessions[1]

	if cmd := m.nextSession(); cmd == nil {
		t.Fatal("nextSession() returned no command")
	}
	if m.session.ID != "ses_c" {
		t.Errorf("session = %s, want ses_c", m.session.ID)
	}

	// Wraps around from the last session to the first.
	m.nextSession()
	if m.session.ID != "ses_a" {
		t.Errorf("session = %s, want ses_a after wrap", m.session.ID)
	}
	if got := m.engine.Snapshot().SessionID; got != "ses_a" {
		t.Errorf("engine session = %s, want ses_a", got)
	}
}

func TestNextSessionSingleEntryIsNoop(t *testing.T) {
	m := New(Options{})
	t.Cleanup(m.Close)

	m.sessions = []agent.Session{{ID: "ses_a"}}
	m.session = &m.sessions[0]

	if cmd := m.nextSession(); cmd != nil {
		t.Error("nextSession() with one session should do nothing")
	}
}

func TestSessionTitle(t *testing.T) {
	if got := sessionTitle("  Fix the login bug  "); got != "Fix the login bug" {
		t.Errorf("sessionTitle() = %q", got)
	}
	if got := sessionTitle("first line\nsecond line"); got != "first line" {
		t.Errorf("sessionTitle() = %q, want first line only", got)
	}

	long := strings.Repeat("word ", 20)
	got := sessionTitle(long)
	if len(got) > 51 || !strings.HasSuffix(got, "...") {
		t.Errorf("sessionTitle() = %q, want truncated with ellipsis", got)
	}
}

func TestDefaultTitle(t *testing.T) {
	for _, title := range []string{"", "Untitled", "New session"} {
		if !defaultTitle(title) {
			t.Errorf("defaultTitle(%q) = false, want true", title)
		}
	}
	if defaultTitle("Fix the login bug") {
		t.Error("a derived title must not count as a placeholder")
	}
}
