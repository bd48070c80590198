// Package transcript splits a raw chat log into timestamped messages.
package transcript

import (
	"regexp"
	"strings"

	"github.com/DaylightE/Log-Highlighter/internal/adfilter"
	"github.com/DaylightE/Log-Highlighter/internal/model"
)

// timestampPattern matches "[H:MM]", "[HH:MM PM]", "[YYYY-MM-DD H:MM]" and
// "[YYYY-MM-DD H:MM AM]" at the start of a line.
const timestampPattern = `(?i)^\s*\[(?:\d{1,2}:\d{2}(?:\s*[AP]M)?|\d{4}-\d{2}-\d{2}\s+\d{1,2}:\d{2}(?:\s*[AP]M)?)\]`

var (
	headerRe = regexp.MustCompile(timestampPattern)
	lineRe   = regexp.MustCompile(`\r?\n`)
)

// IsHeader reports whether line opens a new message.
func IsHeader(line string) bool { return headerRe.MatchString(line) }

// Lines splits text on LF or CRLF.
func Lines(text string) []string { return lineRe.Split(text, -1) }

// Segment turns text into message records. Everything before the first header
// line is discarded. A text with no header line yields no records.
//
// A body line that itself starts with a timestamp token is indistinguishable
// from a header and starts a new message.
func Segment(text string) []model.MessageRecord {
	var (
		records []model.MessageRecord
		cur     *model.MessageRecord
	)
	for _, line := range Lines(text) {
		loc := headerRe.FindStringIndex(line)
		if loc == nil {
			if cur != nil {
				cur.Body = append(cur.Body, line)
			}
			continue
		}
		if cur != nil {
			records = append(records, *cur)
		}
		raw := line[loc[1]:]
		cur = &model.MessageRecord{
			Index:          len(records),
			Header:         line,
			Timestamp:      strings.TrimSpace(line[:loc[1]]),
			SenderProbe:    senderProbe(raw),
			SenderProbeRaw: raw,
			Ad:             adfilter.IsAd(raw),
		}
	}
	if cur != nil {
		records = append(records, *cur)
	}
	return records
}

// Join reassembles records into the text they were cut from, minus any
// preamble that preceded the first header.
func Join(records []model.MessageRecord) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Text()
	}
	return strings.Join(parts, "\n")
}

func senderProbe(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "*")
	return strings.TrimSpace(s)
}
