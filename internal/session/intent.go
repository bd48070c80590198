package session

import (
	"slices"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/util"
	"github.com/DaylightE/Log-Highlighter/internal/visibility"
)

// Intent is a user action. apply mutates the session and reports whether a
// recompute is needed.
type Intent interface {
	apply(s *Session) bool
}

// ToggleHide switches hide mode.
type ToggleHide struct{}

// ToggleAds switches the advertisement filter.
type ToggleAds struct{}

// ToggleRole flips one highlight role.
type ToggleRole struct{ Role model.Role }

// SetRoles replaces all role switches.
type SetRoles struct{ Roles model.RoleToggles }

// SetExtras replaces the extra names. Raw, when set, is parsed as a
// comma or newline separated list and takes precedence over Names.
type SetExtras struct {
	Names []string
	Raw   string
}

// ToggleSelect pins or unpins one message. Pinned messages survive hide mode.
type ToggleSelect struct{ Index int }

// TogglePlaceholder opens or closes a collapsed group.
type TogglePlaceholder struct{ Placeholder model.Placeholder }

// SetLocalTimes switches timestamp conversion.
type SetLocalTimes struct{ On bool }

func (ToggleHide) apply(s *Session) bool {
	if !s.caps.HideFilter {
		return false
	}
	s.state = s.state.WithHideMode(!s.state.Toggles.HideMode)
	return true
}

func (ToggleAds) apply(s *Session) bool {
	if !s.caps.AdsFilter {
		return false
	}
	s.state = s.state.WithAdsMode(!s.state.Toggles.AdsMode)
	return true
}

func (in ToggleRole) apply(s *Session) bool {
	if !s.caps.RoleToggles || in.Role == model.RoleNone {
		return false
	}
	s.state = s.state.WithRoleToggle(in.Role)
	return true
}

func (in SetRoles) apply(s *Session) bool {
	if !s.caps.RoleToggles || s.state.Toggles.Roles == in.Roles {
		return false
	}
	s.state = s.state.WithRoles(in.Roles)
	return true
}

func (in SetExtras) apply(s *Session) bool {
	names := in.Names
	if in.Raw != "" {
		names = util.ParseNames(in.Raw)
	}
	if slices.Equal(names, s.names.Extras) {
		return false
	}
	s.names.Extras = append([]string(nil), names...)
	return true
}

func (in ToggleSelect) apply(s *Session) bool {
	if in.Index < 0 || in.Index >= len(s.selected) {
		return false
	}
	s.selected[in.Index] = !s.selected[in.Index]
	return true
}

func (in TogglePlaceholder) apply(s *Session) bool {
	if !s.caps.HideFilter && !s.caps.AdsFilter {
		return false
	}
	next := s.state.TogglePlaceholder(in.Placeholder, len(s.records))
	if next.Hidden.Equal(s.state.Hidden) && next.Ads.Equal(s.state.Ads) {
		return false
	}
	s.state = next
	return true
}

func (in SetLocalTimes) apply(s *Session) bool {
	if !s.caps.LocalTimes || s.localTimes == in.On {
		return false
	}
	s.localTimes = in.On
	// Conversion changes no roles or visibility.
	return false
}

// Restore replaces the whole toggle state, for example one saved by a
// client. Parts whose capability is off are dropped.
type Restore struct{ State visibility.State }

func (in Restore) apply(s *Session) bool {
	next := in.State
	if !s.caps.HideFilter {
		next = next.WithHideMode(false)
	}
	if !s.caps.AdsFilter {
		next = next.WithAdsMode(false)
	}
	if !s.caps.RoleToggles {
		next = next.WithRoles(s.state.Toggles.Roles)
	}
	s.state = next
	return true
}
