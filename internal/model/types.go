package model

import (
	"strconv"
	"strings"
)

// MessageRecord is one message of a segmented transcript. Records are built
// once by the segmenter and never mutated afterwards.
type MessageRecord struct {
	Index          int
	Header         string   // header line, verbatim
	Timestamp      string   // the bracketed token, e.g. "[12:30 PM]"
	SenderProbe    string   // text after the token, trimmed, one leading '*' removed
	SenderProbeRaw string   // text after the token, untouched
	Body           []string // continuation lines, verbatim
	Ad             bool     // advertisement-shaped
}

// Text returns the message exactly as it appeared in the transcript.
func (m MessageRecord) Text() string {
	if len(m.Body) == 0 {
		return m.Header
	}
	return m.Header + "\n" + strings.Join(m.Body, "\n")
}

// Role is the highlight category assigned to a message.
type Role int

const (
	RoleNone Role = iota
	RoleReported
	RoleSubmitter
	RoleExtra
)

func (r Role) String() string {
	switch r {
	case RoleReported:
		return "reported"
	case RoleSubmitter:
		return "submitter"
	case RoleExtra:
		return "extra"
	default:
		return "none"
	}
}

// ParseRole is the inverse of Role.String. Unknown values map to RoleNone.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reported", "report":
		return RoleReported
	case "submitter", "submit":
		return RoleSubmitter
	case "extra", "extras":
		return RoleExtra
	default:
		return RoleNone
	}
}

// Names holds the user names that drive classification.
type Names struct {
	Reported  string
	Submitter string
	Extras    []string
}

// RoleToggles enables or disables each highlight role.
type RoleToggles struct {
	Report bool
	Submit bool
	Extra  bool
}

// AllRoles has every role enabled.
func AllRoles() RoleToggles {
	return RoleToggles{Report: true, Submit: true, Extra: true}
}

// Enabled reports whether role r is switched on. RoleNone is never enabled.
func (t RoleToggles) Enabled(r Role) bool {
	switch r {
	case RoleReported:
		return t.Report
	case RoleSubmitter:
		return t.Submit
	case RoleExtra:
		return t.Extra
	}
	return false
}

// Toggle flips role r and returns the result.
func (t RoleToggles) Toggle(r Role) RoleToggles {
	switch r {
	case RoleReported:
		t.Report = !t.Report
	case RoleSubmitter:
		t.Submit = !t.Submit
	case RoleExtra:
		t.Extra = !t.Extra
	}
	return t
}

// ToggleState groups the user-facing filter switches.
type ToggleState struct {
	HideMode bool
	AdsMode  bool
	Roles    RoleToggles
}

// PlaceholderKind distinguishes the two kinds of collapsed groups.
type PlaceholderKind int

const (
	KindHidden PlaceholderKind = iota
	KindAd
)

func (k PlaceholderKind) String() string {
	if k == KindAd {
		return "ad"
	}
	return "hidden"
}

// Placeholder describes a contiguous run of messages that can be collapsed
// and expanded as a unit.
type Placeholder struct {
	StartIndex int
	Count      int
	Open       bool
	Kind       PlaceholderKind
}

// End is the inclusive index of the last message in the group.
func (p Placeholder) End() int { return p.StartIndex + p.Count - 1 }

// Label is the text a renderer shows for the placeholder.
func (p Placeholder) Label() string {
	noun := "messages"
	if p.Kind == KindAd {
		noun = "ads"
	}
	if p.Open {
		return "Hide " + strconv.Itoa(p.Count) + " " + noun
	}
	return strconv.Itoa(p.Count) + " " + noun + " hidden"
}
