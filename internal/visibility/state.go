package visibility

import (
	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/rangeset"
)

// State is everything the engine needs besides the messages themselves:
// the filter switches and the ranges the user has opened in each filter.
// Transitions return a new State.
type State struct {
	Toggles model.ToggleState
	Hidden  rangeset.Set // opened sub-ranges of hide-mode groups
	Ads     rangeset.Set // opened sub-ranges of ad groups
}

// NewState returns a State with both filters off and every role enabled.
func NewState() State {
	return State{Toggles: model.ToggleState{Roles: model.AllRoles()}}
}

// WithHideMode switches hide mode. Entering it forgets opened ad ranges,
// since the document is re-partitioned; leaving it forgets opened hidden
// ranges so groups start closed next time.
func (s State) WithHideMode(on bool) State {
	if on == s.Toggles.HideMode {
		return s
	}
	s.Toggles.HideMode = on
	if on {
		s.Ads = rangeset.Set{}
	} else {
		s.Hidden = rangeset.Set{}
	}
	return s
}

// WithAdsMode switches the advertisement filter. Leaving it forgets opened
// ad ranges.
func (s State) WithAdsMode(on bool) State {
	if on == s.Toggles.AdsMode {
		return s
	}
	s.Toggles.AdsMode = on
	if !on {
		s.Ads = rangeset.Set{}
	}
	return s
}

// WithRoleToggle flips one highlight role.
func (s State) WithRoleToggle(r model.Role) State {
	s.Toggles.Roles = s.Toggles.Roles.Toggle(r)
	return s
}

// WithRoles replaces all role switches.
func (s State) WithRoles(t model.RoleToggles) State {
	s.Toggles.Roles = t
	return s
}

// TogglePlaceholder opens a closed placeholder or closes an open one in the
// range set matching its kind. Requests with a negative start, a
// non-positive count or a range past n messages are stale and ignored.
func (s State) TogglePlaceholder(p model.Placeholder, n int) State {
	if p.StartIndex < 0 || p.Count <= 0 || p.End() >= n {
		return s
	}
	set := &s.Hidden
	if p.Kind == model.KindAd {
		set = &s.Ads
	}
	if p.Open {
		*set = set.Close(p.StartIndex, p.End())
	} else {
		*set = set.Open(p.StartIndex, p.End())
	}
	return s
}
