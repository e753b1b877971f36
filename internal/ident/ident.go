// Package ident generates locally assigned message identifiers that sort
// lexicographically in creation order, so an optimistic local message lands
// at the right place in a transcript ordered by server-assigned ids.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Prefix matches the server's message id namespace so local and confirmed
// ids share one ordering domain.
const Prefix = "msg_"

// A Generator produces fixed-width sortable ids from a millisecond
// timestamp, a per-millisecond sequence counter and a random suffix.
// Safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	lastMS int64
	seq    uint16
	now    func() time.Time
}

// New creates a Generator using the wall clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock creates a Generator with a custom clock, for tests.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a new id. Ids are strictly increasing within a process: the
// sequence counter breaks ties inside one millisecond, and a clock that
// stands still or steps backwards keeps the last observed millisecond.
func (g *Generator) Next() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.lastMS {
		ms = g.lastMS
		g.seq++
	} else {
		g.lastMS = ms
		g.seq = 0
	}
	seq := g.seq
	g.mu.Unlock()

	var suffix [6]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		// crypto/rand failing is unrecoverable; fall back to the timestamp
		// bits so ids stay unique enough within this process.
		copy(suffix[:], []byte{byte(ms >> 16), byte(ms >> 8), byte(ms), byte(seq >> 8), byte(seq), 0})
	}

	// 12 hex chars of timestamp (48 bits) + 4 of sequence + 12 random.
	return fmt.Sprintf("%s%012x%04x%s", Prefix, ms&0xffffffffffff, seq, hex.EncodeToString(suffix[:]))
}

// IsLocal reports whether id carries this generator's fixed-width shape.
// Server ids share the prefix but not the 28-char body.
func IsLocal(id string) bool {
	return len(id) == len(Prefix)+28 && id[:len(Prefix)] == Prefix
}
