package session

import (
	"testing"
	"time"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/source"
	"github.com/google/go-cmp/cmp"
)

const sampleLog = "Log submitted by: Bob\n" +
	"Log submitted on: Wed, 10 Sep 2025 16:33:25 +0000\n" +
	"Reporting user: Alice\n" +
	"Tab: Frontpage (frontpage)\n" +
	"Report text: She spammed.\n" +
	"[12:00] Alice: hi [icon]x[/icon] [eicon]y[/eicon]\n" +
	"[12:01] Carol: hello\n" +
	"[12:02] Looking for partners, DM me\n" +
	"[12:03] Dave: hey\n" +
	"[12:04] Bob: stop"

func hidden(start, count int, open bool) model.Placeholder {
	return model.Placeholder{StartIndex: start, Count: count, Open: open, Kind: model.KindHidden}
}

func ad(start, count int, open bool) model.Placeholder {
	return model.Placeholder{StartIndex: start, Count: count, Open: open, Kind: model.KindAd}
}

func newSession(t *testing.T, caps Capabilities) *Session {
	t.Helper()
	return New(source.Document{Text: sampleLog}, Options{Capabilities: caps})
}

func TestNewReadsHeader(t *testing.T) {
	s := newSession(t, Full())
	if got := s.Names(); got.Reported != "Alice" || got.Submitter != "Bob" {
		t.Errorf("Names = %+v", got)
	}
	if s.Report().ReportText != "She spammed." {
		t.Errorf("ReportText = %q", s.Report().ReportText)
	}
	if len(s.Records()) != 5 {
		t.Fatalf("len(Records) = %d; want 5", len(s.Records()))
	}
	if got := s.MaxReportedIcons(); got != 2 {
		t.Errorf("MaxReportedIcons = %d; want 2", got)
	}

	v := s.View()
	want := []model.Role{model.RoleReported, model.RoleNone, model.RoleNone, model.RoleNone, model.RoleSubmitter}
	if diff := cmp.Diff(want, v.Roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 4}, v.Highlights); diff != "" {
		t.Errorf("highlights mismatch (-want +got):\n%s", diff)
	}
	if v.Cursor != 0 {
		t.Errorf("Cursor = %d; want 0", v.Cursor)
	}
}

func TestIntents(t *testing.T) {
	s := newSession(t, Full())

	v := s.Apply(ToggleHide{})
	if diff := cmp.Diff([]model.Placeholder{hidden(1, 3, false)}, v.Snapshot.Placeholders); diff != "" {
		t.Fatalf("hide placeholders (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false, false, false, true}, v.Snapshot.Shown); diff != "" {
		t.Errorf("hide shown (-want +got):\n%s", diff)
	}

	v = s.Apply(TogglePlaceholder{Placeholder: v.Snapshot.Placeholders[0]})
	if diff := cmp.Diff([]model.Placeholder{hidden(1, 3, true)}, v.Snapshot.Placeholders); diff != "" {
		t.Errorf("opened placeholders (-want +got):\n%s", diff)
	}

	v = s.Apply(ToggleAds{})
	wantPH := []model.Placeholder{hidden(1, 3, true), ad(2, 1, false)}
	if diff := cmp.Diff(wantPH, v.Snapshot.Placeholders); diff != "" {
		t.Errorf("ads placeholders (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, true, false, true, true}, v.Snapshot.Shown); diff != "" {
		t.Errorf("ads shown (-want +got):\n%s", diff)
	}

	v = s.Apply(SetExtras{Raw: "Carol,\n Dave "})
	if diff := cmp.Diff([]int{0, 1, 3, 4}, v.Highlights); diff != "" {
		t.Errorf("extras highlights (-want +got):\n%s", diff)
	}
	wantPH = []model.Placeholder{hidden(2, 1, true), ad(2, 1, false)}
	if diff := cmp.Diff(wantPH, v.Snapshot.Placeholders); diff != "" {
		t.Errorf("extras placeholders (-want +got):\n%s", diff)
	}

	v = s.Apply(ToggleRole{Role: model.RoleExtra})
	if diff := cmp.Diff([]int{0, 4}, v.Highlights); diff != "" {
		t.Errorf("role toggle highlights (-want +got):\n%s", diff)
	}

	v = s.Apply(ToggleSelect{Index: 2})
	if !s.Selected(2) || !v.Snapshot.Shown[2] {
		t.Errorf("selected message not shown: %v", v.Snapshot.Shown)
	}
}

func TestStaleIntentsAreIgnored(t *testing.T) {
	s := newSession(t, Full())
	before := s.View()
	after := s.Apply(TogglePlaceholder{Placeholder: hidden(3, 10, false)})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("stale placeholder changed the view (-before +after):\n%s", diff)
	}
	after = s.Apply(ToggleSelect{Index: 99})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("out of range select changed the view (-before +after):\n%s", diff)
	}
}

func TestNavigation(t *testing.T) {
	s := newSession(t, Full())
	steps := []struct {
		next bool
		want int
	}{
		{true, 4},
		{true, 0},
		{false, 4},
		{false, 0},
	}
	for i, st := range steps {
		var got int
		var ok bool
		if st.next {
			got, ok = s.Next()
		} else {
			got, ok = s.Previous()
		}
		if !ok || got != st.want {
			t.Errorf("step %d = %d, %v; want %d", i, got, ok, st.want)
		}
	}

	// The focused message survives a recompute that keeps it highlighted.
	s.Focus(4)
	v := s.Apply(SetExtras{Names: []string{"Dave"}})
	if v.Cursor != 2 {
		t.Errorf("Cursor after rebuild = %d; want 2 (message 4)", v.Cursor)
	}
}

func TestMinimalCapabilities(t *testing.T) {
	s := newSession(t, Minimal())
	v := s.Apply(ToggleHide{})
	if len(v.Snapshot.Placeholders) != 0 || s.State().Toggles.HideMode {
		t.Errorf("hide mode applied without capability: %+v", v.Snapshot)
	}
	s.Apply(ToggleRole{Role: model.RoleReported})
	if !s.State().Toggles.Roles.Report {
		t.Error("role toggle applied without capability")
	}
	if _, ok := s.Next(); ok {
		t.Error("Next succeeded without navigation")
	}
	if v.Highlights != nil || v.Cursor != -1 {
		t.Errorf("navigation view = %v, %d", v.Highlights, v.Cursor)
	}
	if v.Roles[0] != model.RoleReported {
		t.Errorf("highlighting lost: %v", v.Roles)
	}
}

func TestLocalTimes(t *testing.T) {
	s := New(source.Document{Text: sampleLog}, Options{
		Capabilities: Full(),
		Location:     time.FixedZone("UTC+2", 2*3600),
	})
	if got := s.Text(0); got != "[12:00] Alice: hi [icon]x[/icon] [eicon]y[/eicon]" {
		t.Errorf("Text before = %q", got)
	}
	s.Apply(SetLocalTimes{On: true})
	if !s.LocalTimes() {
		t.Fatal("LocalTimes not switched on")
	}
	if got := s.Text(4); got != "[14:04] Bob: stop" {
		t.Errorf("Text after = %q", got)
	}
}

func TestPreset(t *testing.T) {
	if c, err := Preset("minimal"); err != nil || c != Minimal() {
		t.Errorf("Preset(minimal) = %+v, %v", c, err)
	}
	if c, err := Preset(""); err != nil || c != Full() {
		t.Errorf("Preset(\"\") = %+v, %v", c, err)
	}
	if _, err := Preset("maximal"); err == nil {
		t.Error("Preset(maximal) returned nil error")
	}
}
