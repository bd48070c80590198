// Package session ties the highlighter together. A Session owns one loaded
// log and the user's toggles; front ends send it intents and render the View
// it returns.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/DaylightE/Log-Highlighter/internal/classify"
	"github.com/DaylightE/Log-Highlighter/internal/localtime"
	"github.com/DaylightE/Log-Highlighter/internal/logging"
	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/navigate"
	"github.com/DaylightE/Log-Highlighter/internal/report"
	"github.com/DaylightE/Log-Highlighter/internal/source"
	"github.com/DaylightE/Log-Highlighter/internal/transcript"
	"github.com/DaylightE/Log-Highlighter/internal/visibility"
)

// Capabilities switch whole features on or off. Intents for a disabled
// feature are ignored.
type Capabilities struct {
	RoleToggles bool
	HideFilter  bool
	AdsFilter   bool
	Navigation  bool
	LocalTimes  bool
}

// Minimal is the plain highlighter: names are coloured and timestamps can be
// converted, nothing can be hidden.
func Minimal() Capabilities {
	return Capabilities{LocalTimes: true}
}

// Full enables everything.
func Full() Capabilities {
	return Capabilities{RoleToggles: true, HideFilter: true, AdsFilter: true, Navigation: true, LocalTimes: true}
}

// Preset returns the named capability set: "minimal", or "full" (also the
// empty name).
func Preset(name string) (Capabilities, error) {
	switch name {
	case "minimal":
		return Minimal(), nil
	case "", "full":
		return Full(), nil
	}
	return Capabilities{}, fmt.Errorf("unknown feature preset %q", name)
}

// Options configures New.
type Options struct {
	Capabilities Capabilities
	Extras       []string
	// Roles seeds the role switches; nil enables every role.
	Roles      *model.RoleToggles
	LocalTimes bool
	// Location is the zone timestamps are converted into; nil is time.Local.
	Location *time.Location
	// Position maps a message index to its rendered position for the
	// navigation anchor; nil is identity.
	Position func(msg int) int
	Logger   *slog.Logger
}

// View is what a front end renders after every change.
type View struct {
	Roles      []model.Role
	Snapshot   visibility.Snapshot
	Highlights []int
	Cursor     int // position in Highlights, or -1
}

// Session is a loaded log plus its toggle state. It is not safe for
// concurrent use.
type Session struct {
	caps    Capabilities
	doc     source.Document
	report  report.Report
	records []model.MessageRecord
	ads     []bool
	names   model.Names

	state      visibility.State
	selected   []bool
	localTimes bool
	conv       *localtime.Converter

	roles  []model.Role
	snap   visibility.Snapshot
	nav    navigate.Index
	anchor int

	log *slog.Logger
}

// New segments the document, reads its report header and computes the
// first view. The reported and submitting users come from the header;
// extras come from opts.
func New(doc source.Document, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	rep := report.Parse(doc.Text, doc.HTML)
	records := transcript.Segment(doc.Text)

	s := &Session{
		caps:     opts.Capabilities,
		doc:      doc,
		report:   rep,
		records:  records,
		ads:      make([]bool, len(records)),
		selected: make([]bool, len(records)),
		names: model.Names{
			Reported:  rep.ReportingUser,
			Submitter: rep.SubmittedBy,
			Extras:    append([]string(nil), opts.Extras...),
		},
		state:      visibility.NewState(),
		localTimes: opts.LocalTimes && opts.Capabilities.LocalTimes,
		conv:       localtime.New(rep.SubmittedOn, opts.Location),
		log:        opts.Logger,
	}
	for i, r := range records {
		s.ads[i] = r.Ad
	}
	if opts.Roles != nil && s.caps.RoleToggles {
		s.state = s.state.WithRoles(*opts.Roles)
	}
	s.nav.Position = opts.Position

	s.log.Debug("session loaded",
		"messages", len(records),
		"reported", rep.ReportingUser,
		"submitter", rep.SubmittedBy,
		"extras", len(s.names.Extras))
	s.Recompute()
	return s
}

// Recompute reclassifies every message, recomputes visibility and rebuilds
// the navigation index.
func (s *Session) Recompute() View {
	s.roles = classify.Classify(s.records, s.names, s.state.Toggles.Roles)
	s.snap = visibility.Compute(visibility.Input{
		Roles:    s.roles,
		Ads:      s.ads,
		Selected: s.selected,
		State:    s.state,
	})
	if s.caps.Navigation {
		s.nav.Rebuild(s.roles, s.anchor)
	}
	return s.View()
}

// View returns the current view without recomputing.
func (s *Session) View() View {
	v := View{Roles: s.roles, Snapshot: s.snap, Cursor: -1}
	if s.caps.Navigation {
		v.Highlights = s.nav.Entries()
		v.Cursor = s.nav.Cursor()
	}
	return v
}

// Apply runs one intent and returns the resulting view. Intents that change
// nothing, or whose capability is off, leave the state untouched.
func (s *Session) Apply(in Intent) View {
	if !in.apply(s) {
		return s.View()
	}
	s.log.Debug("intent applied", "intent", fmt.Sprintf("%T", in))
	return s.Recompute()
}

// SetAnchor records the rendered position the reader is looking at. The
// next rebuild places the navigation cursor relative to it.
func (s *Session) SetAnchor(pos int) { s.anchor = pos }

// Next moves to the next highlighted message, wrapping around.
func (s *Session) Next() (int, bool) {
	if !s.caps.Navigation {
		return -1, false
	}
	return s.nav.Next()
}

// Previous moves to the previous highlighted message, wrapping around.
func (s *Session) Previous() (int, bool) {
	if !s.caps.Navigation {
		return -1, false
	}
	return s.nav.Previous()
}

// Focus records msg as the message the reader last interacted with.
func (s *Session) Focus(msg int) {
	if s.caps.Navigation {
		s.nav.Focus(msg)
	}
}

// Capabilities returns the enabled features.
func (s *Session) Capabilities() Capabilities { return s.caps }

// Document returns the loaded document.
func (s *Session) Document() source.Document { return s.doc }

// Report returns the parsed header.
func (s *Session) Report() report.Report { return s.report }

// Records returns the segmented messages. Callers must not modify them.
func (s *Session) Records() []model.MessageRecord { return s.records }

// Names returns the names used for classification.
func (s *Session) Names() model.Names { return s.names }

// State returns the current toggle state.
func (s *Session) State() visibility.State { return s.state }

// Selected reports whether msg is pinned by the reader.
func (s *Session) Selected(msg int) bool {
	return msg >= 0 && msg < len(s.selected) && s.selected[msg]
}

// LocalTimes reports whether timestamps are shown converted.
func (s *Session) LocalTimes() bool { return s.localTimes }

// Converter returns the timestamp converter for this log.
func (s *Session) Converter() *localtime.Converter { return s.conv }

// Text returns message msg as displayed: converted to local time when that
// is switched on.
func (s *Session) Text(msg int) string {
	text := s.records[msg].Text()
	if s.localTimes {
		return s.conv.Convert(text)
	}
	return text
}

// MaxReportedIcons is the largest [icon]/[eicon] count in one message of
// the reported user.
func (s *Session) MaxReportedIcons() int {
	return classify.MaxReportedIcons(s.records, s.names.Reported)
}

// Counts tallies the current roles.
func (s *Session) Counts() map[model.Role]int { return classify.Counts(s.roles) }
