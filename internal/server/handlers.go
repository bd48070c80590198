package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DaylightE/Log-Highlighter/internal/localtime"
	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/rangeset"
	"github.com/DaylightE/Log-Highlighter/internal/session"
	"github.com/DaylightE/Log-Highlighter/internal/source"
	"github.com/DaylightE/Log-Highlighter/internal/visibility"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status: "ok",
			Uptime: time.Since(s.started).Round(time.Second).String(),
		})
	}
}

// Range is an inclusive message index range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// RoleSwitches mirrors model.RoleToggles on the wire.
type RoleSwitches struct {
	Reported  bool `json:"reported"`
	Submitter bool `json:"submitter"`
	Extra     bool `json:"extra"`
}

// AnalyzeRequest is the body of POST /v1/analyze. Log is plain text or the
// HTML of a log page.
type AnalyzeRequest struct {
	Log        string        `json:"log"`
	Extras     []string      `json:"extras,omitempty"`
	Roles      *RoleSwitches `json:"roles,omitempty"`
	Hide       bool          `json:"hide"`
	Ads        bool          `json:"ads"`
	Selected   []int         `json:"selected,omitempty"`
	OpenHidden []Range       `json:"open_hidden,omitempty"`
	OpenAds    []Range       `json:"open_ads,omitempty"`
	LocalTimes bool          `json:"local_times"`
	Timezone   string        `json:"timezone,omitempty"`
}

// ReportJSON is the parsed log header.
type ReportJSON struct {
	SubmittedBy   string `json:"submitted_by"`
	SubmittedOn   string `json:"submitted_on"`
	SubmittedAgo  string `json:"submitted_ago,omitempty"`
	ReportingUser string `json:"reporting_user"`
	Tab           string `json:"tab"`
	TabStarred    bool   `json:"tab_starred"`
	ReportText    string `json:"report_text"`
}

// MessageJSON is one message with its classification.
type MessageJSON struct {
	Index     int    `json:"index"`
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Role      string `json:"role"`
	Ad        bool   `json:"ad"`
	Shown     bool   `json:"shown"`
	Selected  bool   `json:"selected"`
}

// PlaceholderJSON is one collapsed group.
type PlaceholderJSON struct {
	Start int    `json:"start"`
	Count int    `json:"count"`
	Open  bool   `json:"open"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// AnalyzeResponse is the result of POST /v1/analyze.
type AnalyzeResponse struct {
	Report       ReportJSON        `json:"report"`
	Messages     []MessageJSON     `json:"messages"`
	Placeholders []PlaceholderJSON `json:"placeholders"`
	Highlights   []int             `json:"highlights"`
	Counts       map[string]int    `json:"counts"`
	MaxIcons     int               `json:"max_icons"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}

		doc, err := source.Parse(req.Log)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var loc *time.Location
		if req.Timezone != "" {
			if loc, err = time.LoadLocation(req.Timezone); err != nil {
				writeError(w, http.StatusBadRequest, "unknown timezone "+req.Timezone)
				return
			}
		}

		resp := s.analyze(doc, req, loc)
		s.metrics.messages.Add(float64(len(resp.Messages)))
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) analyze(doc source.Document, req AnalyzeRequest, loc *time.Location) AnalyzeResponse {
	opts := session.Options{
		Capabilities: s.opts.Capabilities,
		Extras:       req.Extras,
		LocalTimes:   req.LocalTimes,
		Location:     loc,
		Logger:       s.log,
	}
	if req.Roles != nil {
		opts.Roles = &model.RoleToggles{Report: req.Roles.Reported, Submit: req.Roles.Submitter, Extra: req.Roles.Extra}
	}
	sess := session.New(doc, opts)

	state := visibility.NewState().
		WithRoles(sess.State().Toggles.Roles).
		WithHideMode(req.Hide).
		WithAdsMode(req.Ads)
	state.Hidden = toSet(req.OpenHidden)
	state.Ads = toSet(req.OpenAds)
	sess.Apply(session.Restore{State: state})

	seen := make(map[int]bool, len(req.Selected))
	for _, i := range req.Selected {
		if !seen[i] {
			seen[i] = true
			sess.Apply(session.ToggleSelect{Index: i})
		}
	}

	view := sess.View()
	rep := sess.Report()
	resp := AnalyzeResponse{
		Report: ReportJSON{
			SubmittedBy:   rep.SubmittedBy,
			SubmittedOn:   rep.SubmittedOn,
			ReportingUser: rep.ReportingUser,
			Tab:           rep.Tab,
			TabStarred:    rep.TabStarred,
			ReportText:    rep.ReportText,
		},
		Messages:     make([]MessageJSON, 0, len(sess.Records())),
		Placeholders: make([]PlaceholderJSON, 0, len(view.Snapshot.Placeholders)),
		Highlights:   view.Highlights,
		Counts:       make(map[string]int),
		MaxIcons:     sess.MaxReportedIcons(),
	}
	if t, ok := localtime.Submitted(rep.SubmittedOn); ok {
		resp.Report.SubmittedAgo = humanize.Time(t)
		if sess.LocalTimes() {
			resp.Report.SubmittedOn = sess.Converter().FormatSubmitted(rep.SubmittedOn)
		}
	}
	for i, rec := range sess.Records() {
		resp.Messages = append(resp.Messages, MessageJSON{
			Index:     rec.Index,
			Timestamp: rec.Timestamp,
			Sender:    rec.SenderProbe,
			Text:      sess.Text(i),
			Role:      view.Roles[i].String(),
			Ad:        rec.Ad,
			Shown:     view.Snapshot.Shown[i],
			Selected:  sess.Selected(i),
		})
	}
	for _, p := range view.Snapshot.Placeholders {
		resp.Placeholders = append(resp.Placeholders, PlaceholderJSON{
			Start: p.StartIndex,
			Count: p.Count,
			Open:  p.Open,
			Kind:  p.Kind.String(),
			Label: p.Label(),
		})
	}
	for role, n := range sess.Counts() {
		resp.Counts[role.String()] = n
	}
	if resp.Highlights == nil {
		resp.Highlights = []int{}
	}
	return resp
}

func toSet(ranges []Range) rangeset.Set {
	var set rangeset.Set
	for _, r := range ranges {
		set = set.Open(r.Start, r.End)
	}
	return set
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
