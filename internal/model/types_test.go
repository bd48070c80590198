package model

import "testing"

func TestPlaceholderLabel(t *testing.T) {
	tests := []struct {
		p    Placeholder
		want string
	}{
		{Placeholder{StartIndex: 2, Count: 3, Kind: KindHidden}, "3 messages hidden"},
		{Placeholder{StartIndex: 2, Count: 3, Open: true, Kind: KindHidden}, "Hide 3 messages"},
		{Placeholder{Count: 1, Kind: KindAd}, "1 ads hidden"},
		{Placeholder{Count: 4, Open: true, Kind: KindAd}, "Hide 4 ads"},
	}
	for _, tc := range tests {
		if got := tc.p.Label(); got != tc.want {
			t.Errorf("Label(%+v) = %q; want %q", tc.p, got, tc.want)
		}
	}
	if end := (Placeholder{StartIndex: 2, Count: 3}).End(); end != 4 {
		t.Errorf("End = %d; want 4", end)
	}
}

func TestRoleToggles(t *testing.T) {
	all := AllRoles()
	for _, r := range []Role{RoleReported, RoleSubmitter, RoleExtra} {
		if !all.Enabled(r) {
			t.Errorf("AllRoles has %v disabled", r)
		}
		off := all.Toggle(r)
		if off.Enabled(r) {
			t.Errorf("Toggle(%v) left it enabled", r)
		}
		if off.Toggle(r) != all {
			t.Errorf("double Toggle(%v) = %+v", r, off.Toggle(r))
		}
	}
	if all.Enabled(RoleNone) {
		t.Error("RoleNone reported as enabled")
	}
}
