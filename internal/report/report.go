// Package report extracts the moderation metadata printed above a chat log:
// who submitted it, when, who was reported, which tab, and the report text.
package report

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/DaylightE/Log-Highlighter/internal/util"
)

// Report is the metadata block of a log. Missing fields are empty.
type Report struct {
	SubmittedBy   string
	SubmittedOn   string
	ReportingUser string
	Tab           string
	TabStarred    bool
	ReportText    string
}

const (
	labelSubmittedBy   = "log submitted by:"
	labelSubmittedOn   = "log submitted on:"
	labelReportingUser = "reporting user:"
	labelTab           = "tab:"
	labelReportText    = "report text:"
)

var labelRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, l := range []string{labelSubmittedBy, labelSubmittedOn, labelReportingUser, labelTab, labelReportText} {
		m[l] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(l))
	}
	return m
}()

func labelRe(label string) *regexp.Regexp { return labelRes[label] }

var (
	parenSlugRe = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	// chatLineRe finds the first chat line after the report text.
	chatLineRe = regexp.MustCompile(`(?i)\r?\n\s*\[(?:\d{1,2}:\d{2}(?:\s*[AP]M)?|\d{4}-\d{2}-\d{2}\s+\d{1,2}:\d{2}(?:\s*[AP]M)?)\]`)
	inlineTsRe = regexp.MustCompile(`(?i)\[(?:\d{1,2}:\d{2}(?:\s*[AP]M)?|\d{4}-\d{2}-\d{2}\s+\d{1,2}:\d{2}(?:\s*[AP]M)?)\]`)
)

// Parse reads the metadata from a log's text. rawHTML, when available, is
// used to recognise an empty report text, which the site marks with an <hr>
// right after the label.
func Parse(text, rawHTML string) Report {
	r := Report{
		SubmittedBy:   field(text, labelSubmittedBy, labelSubmittedOn, labelReportingUser, labelTab, labelReportText),
		SubmittedOn:   field(text, labelSubmittedOn, labelReportingUser, labelTab, labelReportText),
		ReportingUser: field(text, labelReportingUser, labelTab, labelReportText),
		Tab:           field(text, labelTab, labelReportText),
	}
	r.TabStarred = IsStarredTab(r.Tab)
	if rawHTML == "" || !emptyReportMarker(rawHTML) {
		r.ReportText = reportText(text)
	}
	return r
}

// field returns the single-line value after label. The value ends at a line
// break or at the first of stops, whichever comes first, and is trimmed.
func field(text, label string, stops ...string) string {
	loc := labelRe(label).FindStringIndex(text)
	if loc == nil {
		return ""
	}
	start := loc[1]
	for start < len(text) && isSpace(text[start]) {
		start++
	}
	if start >= len(text) {
		return ""
	}
	end := start + 1
	for end < len(text) && text[end] != '\n' && text[end] != '\r' {
		end++
	}
	// The value holds at least one character, so a stop label is only
	// searched for after it.
	stopAt := end
	for _, stop := range stops {
		if j := labelRe(stop).FindStringIndex(text[start+1 : end]); j != nil {
			stopAt = min(stopAt, start+1+j[0])
		}
	}
	return strings.TrimSpace(text[start:stopAt])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// reportText returns everything after the "Report text:" label up to the
// first line that starts with a chat timestamp. Blank values become empty,
// so an empty report never swallows the first chat line.
func reportText(text string) string {
	loc := labelRe(labelReportText).FindStringIndex(text)
	if loc == nil {
		return ""
	}
	after := text[loc[1]:]
	val := after
	if m := chatLineRe.FindStringIndex(after); m != nil {
		val = after[:m[0]]
	} else if m := inlineTsRe.FindStringIndex(after); m != nil && m[0] > 0 {
		val = after[:m[0]]
	}
	val = strings.TrimLeftFunc(val, unicode.IsSpace)
	if strings.TrimSpace(val) == "" {
		return ""
	}
	return val
}

// emptyReportMarker reports whether the first element after the
// "Report text:" label in the page is an <hr>, meaning no report was given.
func emptyReportMarker(rawHTML string) bool {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	seenLabel := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return false
		case html.TextToken:
			txt := string(z.Text())
			if !seenLabel {
				if loc := labelRe(labelReportText).FindStringIndex(txt); loc != nil {
					seenLabel = true
					if strings.TrimSpace(txt[loc[1]:]) != "" {
						return false
					}
				}
				continue
			}
			if strings.TrimSpace(txt) != "" {
				return false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if !seenLabel {
				continue
			}
			name, _ := z.TagName()
			return atom.Lookup(name) == atom.Hr
		}
		// End tags are skipped: the label usually sits in its own <b> or
		// <span>, and closing it does not end the search.
	}
}

// StarredTabs holds the canonical slugs of channels whose reports are flagged.
var StarredTabs = func() map[string]bool {
	names := []string{
		"sex driven lfrp", "fantasy", "ageplay", "story driven lfrp", "domination/submission", "force/non-con",
		"pregnancy and impregnation", "monster's lair", "ferals / bestiality", "furries", "love and affection",
		"humans/humanoids", "sci-fi", "canon characters", "cum lovers", "mind control", "femboy", "hyper endowed",
		"straight roleplay", "vore", "para/multi-para rp", "femdom", "transformation", "all in the family",
		"canon characters ooc", "lesbians", "pokefurs", "dragons", "superheroes", "gay furry males", "bondage",
		"ass play", "watersports", "world of warcraft", "gay males", "hermaphrodites", "fat and pudgy", "footplay",
		"sadism/masochism", "latex", "transgender", "german ooc", "muscle bound", "micro/macro", "equestria",
		"scat play", "diapers/infantilism", "rp dark city", "inflation", "cuntboys", "rp bar", "gamers",
		"artists / writers", "warhammer general", "the slob den", "gore", "non-sexual rp", "avians", "helpdesk",
		"german furry", "german ic", "medical play", "frontpage", "development",
	}
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[util.CanonSlug(n)] = true
	}
	return m
}()

// IsStarredTab reports whether the parenthesised suffix of tab names one of
// the public channels, e.g. "Fantasy (fantasy)".
func IsStarredTab(tab string) bool {
	m := parenSlugRe.FindStringSubmatch(tab)
	if m == nil {
		return false
	}
	return StarredTabs[util.CanonSlug(m[1])]
}

// NeighborURLs returns the previous and next report URLs when raw carries a
// numeric log query parameter.
func NeighborURLs(raw string) (prev, next string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	q := u.Query()
	n, err := strconv.Atoi(strings.TrimSpace(q.Get("log")))
	if err != nil {
		return "", "", false
	}
	with := func(v int) string {
		c := *u
		cq := c.Query()
		cq.Set("log", strconv.Itoa(v))
		c.RawQuery = cq.Encode()
		return c.String()
	}
	return with(n - 1), with(n + 1), true
}
