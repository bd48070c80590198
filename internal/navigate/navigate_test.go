package navigate

import (
	"testing"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/google/go-cmp/cmp"
)

var roles = []model.Role{
	model.RoleNone, model.RoleReported, model.RoleNone, model.RoleSubmitter, model.RoleNone, model.RoleExtra,
}

func TestRebuildAnchors(t *testing.T) {
	tests := []struct {
		anchor int
		want   int
	}{
		{0, -1},
		{1, 0},
		{2, 0},
		{3, 1},
		{100, 2},
	}
	for _, tc := range tests {
		var x Index
		x.Rebuild(roles, tc.anchor)
		if got := x.Cursor(); got != tc.want {
			t.Errorf("Rebuild(anchor=%d) cursor = %d; want %d", tc.anchor, got, tc.want)
		}
	}

	var x Index
	x.Rebuild(roles, 0)
	if diff := cmp.Diff([]int{1, 3, 5}, x.Entries()); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildKeepsFocus(t *testing.T) {
	var x Index
	x.Focus(3)
	x.Rebuild(roles, 100)
	if got := x.Cursor(); got != 1 {
		t.Errorf("cursor = %d; want 1 (focused message)", got)
	}

	// Focused message no longer highlighted: fall back to the anchor.
	changed := append([]model.Role(nil), roles...)
	changed[3] = model.RoleNone
	x.Rebuild(changed, 2)
	if got := x.Cursor(); got != 0 {
		t.Errorf("cursor = %d; want 0 (anchor fallback)", got)
	}
}

func TestNextPreviousWrap(t *testing.T) {
	var x Index
	x.Rebuild(roles, 0)

	var got []int
	for range 4 {
		msg, ok := x.Next()
		if !ok {
			t.Fatal("Next returned !ok")
		}
		got = append(got, msg)
	}
	if diff := cmp.Diff([]int{1, 3, 5, 1}, got); diff != "" {
		t.Errorf("Next sequence mismatch (-want +got):\n%s", diff)
	}

	got = got[:0]
	for range 3 {
		msg, _ := x.Previous()
		got = append(got, msg)
	}
	if diff := cmp.Diff([]int{5, 3, 1}, got); diff != "" {
		t.Errorf("Previous sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviousFromUnsetCursorGoesToLast(t *testing.T) {
	var x Index
	x.Rebuild(roles, 0)
	if msg, ok := x.Previous(); !ok || msg != 5 {
		t.Errorf("Previous() = %d, %v; want 5, true", msg, ok)
	}
}

func TestEmpty(t *testing.T) {
	var x Index
	if _, ok := x.Next(); ok {
		t.Error("Next on empty index returned ok")
	}
	x.Rebuild(make([]model.Role, 3), 10)
	if x.Cursor() != -1 {
		t.Errorf("cursor = %d; want -1", x.Cursor())
	}
	if _, ok := x.Previous(); ok {
		t.Error("Previous with no highlights returned ok")
	}
	if _, ok := x.Current(); ok {
		t.Error("Current with no highlights returned ok")
	}
}

func TestPositionMapping(t *testing.T) {
	// Messages 1, 3 and 5 sit on lines 10, 30 and 50.
	x := Index{Position: func(msg int) int { return msg * 10 }}
	x.Rebuild(roles, 35)
	if got := x.Cursor(); got != 1 {
		t.Errorf("cursor = %d; want 1", got)
	}
	if msg, _ := x.Next(); msg != 5 {
		t.Errorf("Next() = %d; want 5", msg)
	}
}
