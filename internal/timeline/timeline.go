// Package timeline draws when messages were sent over a day and exports
// classified transcripts as CSV.
package timeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/DaylightE/Log-Highlighter/internal/localtime"
	"github.com/DaylightE/Log-Highlighter/internal/model"
)

const (
	// DefaultWidth is the strip width when the caller has no terminal size.
	DefaultWidth = 80
	minutesInDay = 24 * 60

	emptyCell = '-'
	markCell  = '|'
	busyCell  = '#'
	// busyThreshold is how many messages one cell needs to be drawn busy.
	busyThreshold = 3
)

var dateRe = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2})\s`)

// Day is the set of message times that fall on one date. Date is empty for
// transcripts whose timestamps carry no date.
type Day struct {
	Date    string
	Minutes []int
}

// Days groups the records' timestamps by date, in first-seen order.
// Records whose timestamp has no readable clock time are skipped.
func Days(records []model.MessageRecord) []Day {
	var days []Day
	pos := make(map[string]int)
	for _, rec := range records {
		minute, ok := localtime.MinuteOfDay(rec.Timestamp)
		if !ok {
			continue
		}
		date := ""
		if m := dateRe.FindStringSubmatch(rec.Timestamp); m != nil {
			date = m[1]
		}
		i, seen := pos[date]
		if !seen {
			i = len(days)
			pos[date] = i
			days = append(days, Day{Date: date})
		}
		days[i].Minutes = append(days[i].Minutes, minute)
	}
	return days
}

// Strip renders a single line: label, a space, then width cells covering
// the day from midnight. Cells holding a message are marked '|', cells
// holding several are marked '#'.
func Strip(label string, minutes []int, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	counts := make([]int, width)
	for _, m := range minutes {
		if m < 0 || m >= minutesInDay {
			continue
		}
		counts[m*width/minutesInDay]++
	}
	cells := make([]rune, width)
	for i, n := range counts {
		switch {
		case n >= busyThreshold:
			cells[i] = busyCell
		case n > 0:
			cells[i] = markCell
		default:
			cells[i] = emptyCell
		}
	}
	if label == "" {
		return string(cells)
	}
	return label + " " + string(cells)
}

// Render draws one strip per day, sorted by date.
func Render(days []Day, width int) string {
	sorted := append([]Day(nil), days...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	lines := make([]string, 0, len(sorted))
	for _, d := range sorted {
		lines = append(lines, Strip(d.Date, d.Minutes, width))
	}
	return strings.Join(lines, "\n")
}

// Header is the first row written by Export.
var Header = []string{"index", "timestamp", "role", "ad", "shown", "sender", "text"}

// Export writes one CSV row per record. roles and shown are indexed like
// records; missing entries read as RoleNone and shown.
func Export(w io.Writer, records []model.MessageRecord, roles []model.Role, shown []bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for i, rec := range records {
		role := model.RoleNone
		if i < len(roles) {
			role = roles[i]
		}
		visible := true
		if i < len(shown) {
			visible = shown[i]
		}
		row := []string{
			strconv.Itoa(rec.Index),
			rec.Timestamp,
			role.String(),
			strconv.FormatBool(rec.Ad),
			strconv.FormatBool(visible),
			rec.SenderProbe,
			rec.Text(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing csv: %w", err)
	}
	return nil
}
