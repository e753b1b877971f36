package engine

import "time"

// TimelineMessage is one entry of the ordered transcript. Text is derived
// from the part store, never set directly once parts exist.
type TimelineMessage struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
	Pending   bool
	Parts     []*PartSnapshot
}

// timeline is the ordered, deduplicated message list. Message ids are
// lexicographically ordered and used directly as the sort key.
type timeline struct {
	entries []*TimelineMessage
}

// search returns the index of id, or the insertion point and false.
func (t *timeline) search(id string) (int, bool) {
	lo, hi := 0, len(t.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.entries[mid].ID < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(t.entries) && t.entries[lo].ID == id
}

// insert places m at its sorted position. An entry with the same id is
// replaced, not duplicated.
func (t *timeline) insert(m *TimelineMessage) {
	i, found := t.search(m.ID)
	if found {
		t.entries[i] = m
		return
	}
	t.entries = append(t.entries, nil)
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = m
}

// get returns the entry with id, or nil.
func (t *timeline) get(id string) *TimelineMessage {
	if i, found := t.search(id); found {
		return t.entries[i]
	}
	return nil
}

// remove deletes the entry with id and reports whether it existed.
func (t *timeline) remove(id string) bool {
	i, found := t.search(id)
	if !found {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return true
}

// pendingFor returns the pending entry with the given role, or nil. At most
// one pending message per role exists at a time.
func (t *timeline) pendingFor(role Role) *TimelineMessage {
	for _, m := range t.entries {
		if m.Pending && m.Role == role {
			return m
		}
	}
	return nil
}

func (t *timeline) clear() {
	t.entries = nil
}
