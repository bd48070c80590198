// Package localtime rewrites chat timestamps from the server's zone into
// another zone, using the "Log submitted on" value for the date and offset.
package localtime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	offsetRe   = regexp.MustCompile(`([+-])(\d{2})(\d{2})\b`)
	baseDateRe = regexp.MustCompile(`\b(\d{1,2})\s+([A-Za-z]{3})\s+(\d{4})\b`)
	shortRe    = regexp.MustCompile(`(?i)\[(\d{1,2}):(\d{2})(?:\s*([AP]M))?\]`)
	longRe     = regexp.MustCompile(`(?i)\[(\d{4})-(\d{2})-(\d{2})\s+(\d{1,2}):(\d{2})(?:\s*([AP]M))?\]`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// submittedLayouts are tried when the submitted-on value has no
// "D Mon YYYY" date.
var submittedLayouts = []string{
	time.RFC1123Z, time.RFC1123, time.RFC3339, time.RFC822Z, time.ANSIC, "2006-01-02 15:04:05", "2006-01-02",
}

// Converter maps source-zone clock times onto a target zone.
type Converter struct {
	source *time.Location
	target *time.Location
	year   int
	month  time.Month
	day    int
	now    func() time.Time
}

// New builds a Converter from a "Log submitted on" value such as
// "Wed, 10 Sep 2025 16:33:25 +0000". Without an explicit offset the source
// zone is UTC; without a date, today is used for short timestamps.
func New(submittedOn string, target *time.Location) *Converter {
	return newAt(submittedOn, target, time.Now)
}

func newAt(submittedOn string, target *time.Location, now func() time.Time) *Converter {
	if target == nil {
		target = time.Local
	}
	c := &Converter{source: time.UTC, target: target, now: now}
	if m := offsetRe.FindStringSubmatch(submittedOn); m != nil {
		hh, _ := strconv.Atoi(m[2])
		mm, _ := strconv.Atoi(m[3])
		secs := (hh*60 + mm) * 60
		if m[1] == "-" {
			secs = -secs
		}
		c.source = time.FixedZone(m[0], secs)
	}
	c.year, c.month, c.day = baseDate(submittedOn, now)
	return c
}

func baseDate(s string, now func() time.Time) (int, time.Month, int) {
	if m := baseDateRe.FindStringSubmatch(s); m != nil {
		if mon, ok := months[strings.ToLower(m[2])]; ok {
			d, _ := strconv.Atoi(m[1])
			y, _ := strconv.Atoi(m[3])
			return y, mon, d
		}
	}
	if t, ok := parseSubmitted(s); ok {
		t = t.UTC()
		return t.Year(), t.Month(), t.Day()
	}
	return now().Date()
}

func parseSubmitted(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// To24h converts an hour and optional AM/PM marker to a 0-23 hour. Out of
// range hours are clamped.
func To24h(hour int, marker string) int {
	switch strings.ToUpper(marker) {
	case "AM":
		return clamp(hour, 1, 12) % 12
	case "PM":
		return clamp(hour, 1, 12)%12 + 12
	}
	return clamp(hour, 0, 23)
}

func clamp(v, lo, hi int) int { return max(lo, min(hi, v)) }

// Convert rewrites every supported timestamp token in text into the target
// zone as 24-hour "HH:MM". Dated tokens keep their date form and move to the
// target date.
func (c *Converter) Convert(text string) string {
	text = longRe.ReplaceAllStringFunc(text, func(tok string) string {
		m := longRe.FindStringSubmatch(tok)
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		h, _ := strconv.Atoi(m[4])
		mi, _ := strconv.Atoi(m[5])
		t := time.Date(y, time.Month(clamp(mo, 1, 12)), clamp(d, 1, 31), To24h(h, m[6]), clamp(mi, 0, 59), 0, 0, c.source)
		return "[" + t.In(c.target).Format("2006-01-02 15:04") + "]"
	})
	return shortRe.ReplaceAllStringFunc(text, func(tok string) string {
		m := shortRe.FindStringSubmatch(tok)
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		return "[" + c.at(To24h(h, m[3]), clamp(mi, 0, 59)).Format("15:04") + "]"
	})
}

func (c *Converter) at(hour, minute int) time.Time {
	return time.Date(c.year, c.month, c.day, hour, minute, 0, 0, c.source).In(c.target)
}

// FormatSubmitted renders the submitted-on value in the target zone, in the
// same RFC 1123 form the site uses. Unparseable values are returned as is.
func (c *Converter) FormatSubmitted(submittedOn string) string {
	t, ok := parseSubmitted(submittedOn)
	if !ok {
		return submittedOn
	}
	return t.In(c.target).Format(time.RFC1123Z)
}

// Submitted returns the submitted-on instant, if it parses.
func Submitted(submittedOn string) (time.Time, bool) {
	return parseSubmitted(submittedOn)
}

// MinuteOfDay returns the minutes since midnight of a header token such as
// "[1:05 PM]" or "[2024-01-31 13:05]".
func MinuteOfDay(token string) (int, bool) {
	if m := longRe.FindStringSubmatch(token); m != nil {
		h, _ := strconv.Atoi(m[4])
		mi, _ := strconv.Atoi(m[5])
		return To24h(h, m[6])*60 + clamp(mi, 0, 59), true
	}
	if m := shortRe.FindStringSubmatch(token); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		return To24h(h, m[3])*60 + clamp(mi, 0, 59), true
	}
	return 0, false
}
