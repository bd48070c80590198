package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/DaylightE/Log-Highlighter/internal/model"
)

// Sender is one speaker of the log with how often they spoke.
type Sender struct {
	Name  string
	Count int
	Role  model.Role
}

// senderItem wraps Sender to customize list display.
type senderItem struct {
	Sender
	extra bool
}

func (s senderItem) FilterValue() string { return s.Name }
func (s senderItem) Title() string {
	indicator := "  "
	if s.extra {
		indicator = "+ "
	}
	return fmt.Sprintf("%s%s (%d)", indicator, s.Name, s.Count)
}
func (s senderItem) Description() string {
	if s.Role == model.RoleNone {
		return "not highlighted"
	}
	return s.Role.String()
}

// SenderName guesses who wrote a message from its sender probe: the text
// before a "Name: " colon, or the first word of an emote.
func SenderName(rec model.MessageRecord) string {
	if rec.Ad {
		return ""
	}
	probe := rec.SenderProbe
	if i := strings.Index(probe, ": "); i > 0 && !strings.HasPrefix(strings.TrimSpace(rec.SenderProbeRaw), "*") {
		return strings.TrimSpace(probe[:i])
	}
	if f := strings.Fields(probe); len(f) > 0 {
		return strings.TrimRight(f[0], ":")
	}
	return ""
}

// Senders aggregates the log's speakers, most active first.
func Senders(records []model.MessageRecord, roles []model.Role) []Sender {
	byName := make(map[string]*Sender)
	var order []string
	for i, rec := range records {
		name := SenderName(rec)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		s, ok := byName[key]
		if !ok {
			s = &Sender{Name: name}
			byName[key] = s
			order = append(order, key)
		}
		s.Count++
		if i < len(roles) && s.Role == model.RoleNone {
			s.Role = roles[i]
		}
	}
	out := make([]Sender, 0, len(order))
	for _, k := range order {
		out = append(out, *byName[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func sendersToItems(senders []Sender, extras []string) []list.Item {
	items := make([]list.Item, len(senders))
	for i, s := range senders {
		isExtra := false
		for _, e := range extras {
			if strings.EqualFold(s.Name, e) {
				isExtra = true
				break
			}
		}
		items[i] = senderItem{Sender: s, extra: isExtra}
	}
	return items
}

func sendersFooter() string {
	return footerStyle.Render("enter: toggle extra  /: filter  esc: back  q: quit  +=extra")
}
