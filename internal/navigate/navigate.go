// Package navigate steps a cursor through highlighted messages.
package navigate

import "github.com/DaylightE/Log-Highlighter/internal/model"

// Index is an ordered list of highlighted message indices plus a cursor into
// it. The zero value is empty and ready to use.
type Index struct {
	// Position maps a message index to its position in the rendered
	// document (a line number, a scroll offset). Nil means identity.
	Position func(msg int) int

	entries     []int
	cursor      int
	lastFocused int
	hasFocus    bool
	roles       []model.Role
	anchor      int
}

// Rebuild recomputes the entry list from roles. The cursor stays on the
// last focused message if it is still highlighted; otherwise it moves to the
// last entry positioned at or before anchor, or to -1 if there is none.
func (x *Index) Rebuild(roles []model.Role, anchor int) {
	x.roles = roles
	x.anchor = anchor
	x.entries = x.entries[:0]
	for i, r := range roles {
		if r != model.RoleNone {
			x.entries = append(x.entries, i)
		}
	}
	x.cursor = -1
	if len(x.entries) == 0 {
		return
	}
	if x.hasFocus {
		for k, msg := range x.entries {
			if msg == x.lastFocused {
				x.cursor = k
				return
			}
		}
	}
	for k, msg := range x.entries {
		if x.position(msg) > anchor {
			break
		}
		x.cursor = k
	}
}

func (x *Index) position(msg int) int {
	if x.Position == nil {
		return msg
	}
	return x.Position(msg)
}

// Focus records msg as the last focused message.
func (x *Index) Focus(msg int) {
	x.lastFocused = msg
	x.hasFocus = true
}

// Next advances the cursor circularly and returns the message it lands on.
// From an unset cursor it goes to the first entry.
func (x *Index) Next() (int, bool) {
	return x.step(1)
}

// Previous moves the cursor back circularly. From an unset cursor it goes
// to the last entry.
func (x *Index) Previous() (int, bool) {
	return x.step(-1)
}

func (x *Index) step(dir int) (int, bool) {
	if len(x.entries) == 0 && x.roles != nil {
		x.Rebuild(x.roles, x.anchor)
	}
	n := len(x.entries)
	if n == 0 {
		return -1, false
	}
	switch {
	case x.cursor < 0 && dir > 0:
		x.cursor = 0
	case x.cursor < 0:
		x.cursor = n - 1
	default:
		x.cursor = (x.cursor + dir + n) % n
	}
	msg := x.entries[x.cursor]
	x.Focus(msg)
	return msg, true
}

// Entries returns the highlighted message indices in document order.
func (x *Index) Entries() []int {
	out := make([]int, len(x.entries))
	copy(out, x.entries)
	return out
}

// Cursor returns the position in Entries of the current entry, or -1.
func (x *Index) Cursor() int { return x.cursor }

// Current returns the message under the cursor.
func (x *Index) Current() (int, bool) {
	if x.cursor < 0 || x.cursor >= len(x.entries) {
		return -1, false
	}
	return x.entries[x.cursor], true
}

// Len is the number of highlighted messages.
func (x *Index) Len() int { return len(x.entries) }
