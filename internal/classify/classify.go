// Package classify assigns highlight roles to messages by matching the
// speaker at the start of each message against known character names.
package classify

import (
	"strings"
	"unicode"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/util"
)

// MatchesName reports whether probe starts with name as a whole word.
// A single leading '*' (emote marker) and leading whitespace are ignored.
// The match is case-insensitive and the character after the name must be
// end of text, a space, ':' or '['. A blank name never matches.
func MatchesName(probe, name string) bool {
	n := []rune(strings.TrimSpace(name))
	if len(n) == 0 {
		return false
	}
	s := []rune(stripEmote(probe))
	if len(s) < len(n) {
		return false
	}
	for i := range n {
		if !foldEqual(s[i], n[i]) {
			return false
		}
	}
	if len(s) == len(n) {
		return true
	}
	switch s[len(n)] {
	case ' ', ':', '[':
		return true
	}
	return false
}

func stripEmote(probe string) string {
	s := strings.TrimLeftFunc(probe, unicode.IsSpace)
	s = strings.TrimPrefix(s, "*")
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func foldEqual(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}

// Classify returns one role per record. Roles are tried in the order
// reported, submitter, extras; the first enabled role whose name matches
// wins. The result always has the same length as records.
func Classify(records []model.MessageRecord, names model.Names, enabled model.RoleToggles) []model.Role {
	roles := make([]model.Role, len(records))
	for i, r := range records {
		roles[i] = Role(r.SenderProbe, names, enabled)
	}
	return roles
}

// Role classifies a single sender probe.
func Role(probe string, names model.Names, enabled model.RoleToggles) model.Role {
	if enabled.Report && MatchesName(probe, names.Reported) {
		return model.RoleReported
	}
	if enabled.Submit && MatchesName(probe, names.Submitter) {
		return model.RoleSubmitter
	}
	if enabled.Extra {
		for _, extra := range names.Extras {
			if MatchesName(probe, extra) {
				return model.RoleExtra
			}
		}
	}
	return model.RoleNone
}

// MaxReportedIcons returns the largest number of [icon]/[eicon] tags found
// in a single message sent by reporter. Role toggles do not affect it.
func MaxReportedIcons(records []model.MessageRecord, reporter string) int {
	best := 0
	for _, r := range records {
		if !MatchesName(r.SenderProbe, reporter) {
			continue
		}
		best = max(best, util.CountIcons(r.Text()))
	}
	return best
}

// Counts tallies how many records carry each role.
func Counts(roles []model.Role) map[model.Role]int {
	out := make(map[model.Role]int, 4)
	for _, r := range roles {
		out[r]++
	}
	return out
}
