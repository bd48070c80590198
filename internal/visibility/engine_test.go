package visibility

import (
	"testing"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/rangeset"
	"github.com/google/go-cmp/cmp"
)

const (
	none = model.RoleNone
	rep  = model.RoleReported
	sub  = model.RoleSubmitter
)

func hidden(start, count int, open bool) model.Placeholder {
	return model.Placeholder{StartIndex: start, Count: count, Open: open, Kind: model.KindHidden}
}

func ad(start, count int, open bool) model.Placeholder {
	return model.Placeholder{StartIndex: start, Count: count, Open: open, Kind: model.KindAd}
}

func hideState() State { return NewState().WithHideMode(true) }

func TestComputeNoFilters(t *testing.T) {
	got := Compute(Input{
		Roles: []model.Role{rep, sub, rep},
		State: NewState(),
	})
	want := Snapshot{Shown: []bool{true, true, true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeAllKeptInHideMode(t *testing.T) {
	got := Compute(Input{Roles: []model.Role{rep, sub, rep}, State: hideState()})
	want := Snapshot{Shown: []bool{true, true, true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeHiddenGroup(t *testing.T) {
	in := Input{
		Roles: []model.Role{rep, none, none, none, sub},
		State: hideState(),
	}
	got := Compute(in)
	want := Snapshot{
		Shown:        []bool{true, false, false, false, true},
		Placeholders: []model.Placeholder{hidden(1, 3, false)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closed group mismatch (-want +got):\n%s", diff)
	}

	in.State = in.State.TogglePlaceholder(got.Placeholders[0], len(in.Roles))
	if !in.State.Hidden.IsOpen(1, 3) {
		t.Fatalf("hidden set = %v; want [1,3] open", in.State.Hidden)
	}
	got = Compute(in)
	want = Snapshot{
		Shown:        []bool{true, true, true, true, true},
		Placeholders: []model.Placeholder{hidden(1, 3, true)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("open group mismatch (-want +got):\n%s", diff)
	}

	in.State = in.State.TogglePlaceholder(got.Placeholders[0], len(in.Roles))
	if !in.State.Hidden.Empty() {
		t.Errorf("hidden set = %v after closing; want empty", in.State.Hidden)
	}
}

func TestComputeSelectionKeepsMessage(t *testing.T) {
	got := Compute(Input{
		Roles:    []model.Role{none, none, none, none},
		Selected: []bool{false, true},
		State:    hideState(),
	})
	want := Snapshot{
		Shown:        []bool{false, true, false, false},
		Placeholders: []model.Placeholder{hidden(0, 1, false), hidden(2, 2, false)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeOpenGroupWithAds(t *testing.T) {
	// 0 kept, 1 organic, 2-3 ads, 4 organic, 5 ad, 6 kept
	in := Input{
		Roles: []model.Role{rep, none, none, none, none, none, sub},
		Ads:   []bool{false, false, true, true, false, true, false},
		State: hideState().WithAdsMode(true),
	}
	in.State.Hidden = rangeset.Of(rangeset.Range{Start: 1, End: 5})

	got := Compute(in)
	want := Snapshot{
		Shown: []bool{true, true, false, false, true, false, true},
		Placeholders: []model.Placeholder{
			hidden(1, 5, true),
			ad(2, 2, false),
			ad(5, 1, false),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closed ads mismatch (-want +got):\n%s", diff)
	}

	in.State = in.State.TogglePlaceholder(ad(2, 2, false), 7)
	got = Compute(in)
	want.Shown = []bool{true, true, true, true, true, false, true}
	want.Placeholders[1] = ad(2, 2, true)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("open ads mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeAdRunAdjacentToKept(t *testing.T) {
	// The ad run ends right before a kept message and starts the group.
	in := Input{
		Roles: []model.Role{none, none, rep, none},
		Ads:   []bool{true, true, false, true},
		State: hideState().WithAdsMode(true),
	}
	in.State.Hidden = rangeset.Of(rangeset.Range{Start: 0, End: 3})
	got := Compute(in)
	want := Snapshot{
		Shown: []bool{false, false, true, false},
		Placeholders: []model.Placeholder{
			hidden(0, 2, true),
			ad(0, 2, false),
			hidden(3, 1, true),
			ad(3, 1, false),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}

	layout := got.Layout()
	var order []string
	for _, it := range layout {
		if it.IsPlaceholder() {
			order = append(order, it.Placeholder.Kind.String())
		} else {
			order = append(order, "msg")
		}
	}
	wantOrder := []string{"hidden", "ad", "msg", "hidden", "ad"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Errorf("Layout order mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeAdSubRunSplitsOnOpenState(t *testing.T) {
	in := Input{
		Roles: []model.Role{none, none, none, none},
		Ads:   []bool{true, true, true, true},
		State: hideState().WithAdsMode(true),
	}
	in.State.Hidden = rangeset.Of(rangeset.Range{Start: 0, End: 3})
	in.State.Ads = rangeset.Of(rangeset.Range{Start: 1, End: 2})
	got := Compute(in)
	want := Snapshot{
		Shown: []bool{false, true, true, false},
		Placeholders: []model.Placeholder{
			hidden(0, 4, true),
			ad(0, 1, false),
			ad(1, 2, true),
			ad(3, 1, false),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeAdsOnly(t *testing.T) {
	in := Input{
		Roles:    []model.Role{none, none, rep, none, none, none},
		Ads:      []bool{true, true, true, false, true, true},
		Selected: []bool{false, false, false, false, false, true},
		State:    NewState().WithAdsMode(true),
	}
	got := Compute(in)
	want := Snapshot{
		Shown:        []bool{false, false, true, true, false, true},
		Placeholders: []model.Placeholder{ad(0, 2, false), ad(4, 1, false)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closed mismatch (-want +got):\n%s", diff)
	}

	in.State = in.State.TogglePlaceholder(got.Placeholders[0], 6)
	got = Compute(in)
	want.Shown[0], want.Shown[1] = true, true
	want.Placeholders[0].Open = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("open mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	in := Input{
		Roles: []model.Role{none, rep, none, none, sub, none},
		Ads:   []bool{true, false, true, false, false, true},
		State: hideState().WithAdsMode(true),
	}
	in.State.Hidden = rangeset.Of(rangeset.Range{Start: 2, End: 2})
	first := Compute(in)
	second := Compute(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recompute differs (-first +second):\n%s", diff)
	}
}

func TestModeTransitions(t *testing.T) {
	s := NewState().WithAdsMode(true)
	s.Ads = rangeset.Of(rangeset.Range{Start: 0, End: 1})
	s.Hidden = rangeset.Of(rangeset.Range{Start: 4, End: 6})

	entered := s.WithHideMode(true)
	if !entered.Ads.Empty() {
		t.Errorf("entering hide mode kept ads ranges %v", entered.Ads)
	}
	if entered.Hidden.Empty() {
		t.Error("entering hide mode dropped hidden ranges")
	}

	left := entered.WithHideMode(false)
	if !left.Hidden.Empty() {
		t.Errorf("leaving hide mode kept hidden ranges %v", left.Hidden)
	}

	same := entered.WithHideMode(true)
	if !same.Hidden.Equal(entered.Hidden) {
		t.Error("re-entering an active hide mode changed state")
	}

	if off := s.WithAdsMode(false); !off.Ads.Empty() {
		t.Errorf("leaving ads mode kept ads ranges %v", off.Ads)
	}
}

func TestTogglePlaceholderIgnoresStaleRequests(t *testing.T) {
	s := hideState()
	for _, p := range []model.Placeholder{
		hidden(-1, 2, false),
		hidden(0, 0, false),
		hidden(2, -3, false),
		hidden(3, 5, false),
	} {
		if got := s.TogglePlaceholder(p, 5); !got.Hidden.Empty() || !got.Ads.Empty() {
			t.Errorf("TogglePlaceholder(%+v) changed state: %v %v", p, got.Hidden, got.Ads)
		}
	}
}

func TestPlaceholderAt(t *testing.T) {
	snap := Snapshot{
		Shown:        make([]bool, 6),
		Placeholders: []model.Placeholder{hidden(0, 4, true), ad(1, 2, false), hidden(5, 1, false)},
	}
	tests := []struct {
		i    int
		want model.Placeholder
		ok   bool
	}{
		{0, hidden(0, 4, true), true},
		{2, ad(1, 2, false), true},
		{3, hidden(0, 4, true), true},
		{4, model.Placeholder{}, false},
		{5, hidden(5, 1, false), true},
	}
	for _, tc := range tests {
		got, ok := snap.PlaceholderAt(tc.i)
		if ok != tc.ok || got != tc.want {
			t.Errorf("PlaceholderAt(%d) = %+v, %v; want %+v, %v", tc.i, got, ok, tc.want, tc.ok)
		}
	}
}
