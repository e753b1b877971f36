package chat

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 120); got != "short" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}

	long := strings.Repeat("x", 10)
	if got := truncate(long, 4); got != "xxxx..." {
		t.Errorf("truncate() = %q, want xxxx...", got)
	}

	// Cutting inside a multibyte rune must back up to the boundary.
	got := truncate("abécd", 3) // é spans bytes 2-3
	if !utf8.ValidString(got) {
		t.Errorf("truncate() = %q, split a rune", got)
	}
	if got != "ab..." {
		t.Errorf("truncate() = %q, want ab...", got)
	}
}
