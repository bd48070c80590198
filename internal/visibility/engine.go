// Package visibility decides which messages of a transcript are shown and
// which contiguous runs collapse into placeholders, given the active filters.
package visibility

import "github.com/DaylightE/Log-Highlighter/internal/model"

// Input is one recompute request. Roles, Ads and Selected are indexed by
// message; missing entries in Ads or Selected count as false.
type Input struct {
	Roles    []model.Role
	Ads      []bool
	Selected []bool
	State    State
}

// Snapshot is the result of a recompute.
type Snapshot struct {
	Shown        []bool
	Placeholders []model.Placeholder // ordered by StartIndex, Hidden before Ad
}

// Compute derives the visibility snapshot. It is pure: the same input always
// produces an equal snapshot.
func Compute(in Input) Snapshot {
	n := len(in.Roles)
	snap := Snapshot{Shown: make([]bool, n)}
	t := in.State.Toggles

	switch {
	case t.HideMode:
		computeHidden(in, &snap)
	case t.AdsMode:
		computeAdsOnly(in, &snap)
	default:
		for i := range snap.Shown {
			snap.Shown[i] = true
		}
	}
	return snap
}

func kept(in Input, i int) bool {
	return in.Roles[i] != model.RoleNone || at(in.Selected, i)
}

func at(flags []bool, i int) bool { return i < len(flags) && flags[i] }

// runs calls fn for every maximal run [start, end] of indices in [lo, hi]
// for which member returns true.
func runs(lo, hi int, member func(int) bool, fn func(start, end int)) {
	start := -1
	for i := lo; i <= hi; i++ {
		if member(i) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			fn(start, i-1)
			start = -1
		}
	}
	if start != -1 {
		fn(start, hi)
	}
}

func computeHidden(in Input, snap *Snapshot) {
	n := len(in.Roles)
	hiddenSet, adsSet := in.State.Hidden, in.State.Ads
	adsMode := in.State.Toggles.AdsMode

	notKept := func(i int) bool { return !kept(in, i) }
	next := 0
	runs(0, n-1, notKept, func(start, end int) {
		for i := next; i < start; i++ {
			snap.Shown[i] = true
		}
		next = end + 1

		open := hiddenSet.IsOpen(start, end)
		snap.Placeholders = append(snap.Placeholders, model.Placeholder{
			StartIndex: start,
			Count:      end - start + 1,
			Open:       open,
			Kind:       model.KindHidden,
		})
		if !open {
			return
		}
		if !adsMode {
			for i := start; i <= end; i++ {
				snap.Shown[i] = true
			}
			return
		}
		for i := start; i <= end; i++ {
			snap.Shown[i] = !at(in.Ads, i) || adsSet.Contains(i)
		}
		// Ad sub-runs split wherever their opened state changes, so an
		// opened stretch and a closed stretch get separate placeholders.
		isAd := func(i int) bool { return at(in.Ads, i) }
		runs(start, end, isAd, func(as, ae int) {
			segStart := as
			for i := as + 1; i <= ae+1; i++ {
				if i <= ae && adsSet.Contains(i) == adsSet.Contains(segStart) {
					continue
				}
				snap.Placeholders = append(snap.Placeholders, model.Placeholder{
					StartIndex: segStart,
					Count:      i - segStart,
					Open:       adsSet.Contains(segStart),
					Kind:       model.KindAd,
				})
				segStart = i
			}
		})
	})
	for i := next; i < n; i++ {
		snap.Shown[i] = true
	}
}

func computeAdsOnly(in Input, snap *Snapshot) {
	n := len(in.Roles)
	adsSet := in.State.Ads
	hidden := func(i int) bool { return at(in.Ads, i) && !kept(in, i) }
	for i := 0; i < n; i++ {
		snap.Shown[i] = !hidden(i)
	}
	runs(0, n-1, hidden, func(start, end int) {
		open := adsSet.IsOpen(start, end)
		if open {
			for i := start; i <= end; i++ {
				snap.Shown[i] = true
			}
		}
		snap.Placeholders = append(snap.Placeholders, model.Placeholder{
			StartIndex: start,
			Count:      end - start + 1,
			Open:       open,
			Kind:       model.KindAd,
		})
	})
}
