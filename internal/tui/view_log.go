package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/DaylightE/Log-Highlighter/internal/localtime"
	"github.com/DaylightE/Log-Highlighter/internal/model"
)

// renderLog draws the visible items and records the first line of each.
func (m *AppModel) renderLog() string {
	var b strings.Builder
	m.itemLines = m.itemLines[:0]
	line := 0
	for k, it := range m.items {
		m.itemLines = append(m.itemLines, line)
		var text string
		if it.IsPlaceholder() {
			text = m.renderPlaceholder(*it.Placeholder, k == m.cursor)
		} else {
			text = m.renderMessage(it.Message, k == m.cursor)
		}
		if k > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
		line += strings.Count(text, "\n") + 1
	}
	if len(m.items) == 0 {
		b.WriteString(placeholderStyle.Render("No messages found."))
	}
	return b.String()
}

func (m *AppModel) renderPlaceholder(p model.Placeholder, atCursor bool) string {
	sign := "[+] "
	if p.Open {
		sign = "[-] "
	}
	return gutter(atCursor, false) + placeholderStyle.Render(sign+p.Label())
}

func (m *AppModel) renderMessage(i int, atCursor bool) string {
	rec := m.sess.Records()[i]
	text := m.sess.Text(i)
	if m.compact && len(rec.Body) > 0 {
		text = strings.SplitN(text, "\n", 2)[0] + " …"
	}
	role := m.roles()[i]
	style := RoleStyle(role)
	if role == model.RoleNone && rec.Ad {
		style = adStyle
	}
	lines := strings.Split(text, "\n")
	sel := m.sess.Selected(i)
	for j, l := range lines {
		lines[j] = gutter(atCursor && j == 0, sel && j == 0) + style.Render(l)
	}
	return strings.Join(lines, "\n")
}

// gutter is the two-column margin: cursor marker, then selection marker.
func gutter(atCursor, selected bool) string {
	c, s := " ", " "
	if atCursor {
		c = cursorStyle.Render(">")
	}
	if selected {
		s = selectedStyle.Render("●")
	}
	return c + s
}

// renderHeader draws the report block and the legend. Collapsed, it is a
// single summary line.
func (m *AppModel) renderHeader() string {
	rep := m.sess.Report()
	if !m.headerShown {
		return headerStyle.Render(fmt.Sprintf("%s reported %s", orDash(rep.SubmittedBy), orDash(rep.ReportingUser))) +
			labelStyle.Render("  (H: expand)")
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Submitted by: ") + m.name(rep.SubmittedBy))
	if rep.SubmittedOn != "" {
		on := rep.SubmittedOn
		if m.sess.LocalTimes() {
			on = m.sess.Converter().FormatSubmitted(on)
		}
		b.WriteString(labelStyle.Render("  on: ") + on)
		if t, ok := localtime.Submitted(rep.SubmittedOn); ok {
			b.WriteString(labelStyle.Render(" (" + humanize.Time(t) + ")"))
		}
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Reported: ") + m.name(rep.ReportingUser))
	if rep.Tab != "" {
		b.WriteString(labelStyle.Render("  Tab: ") + rep.Tab)
		if rep.TabStarred {
			b.WriteString(" " + starStyle.Render("★"))
		}
	}
	b.WriteString("\n")
	report := rep.ReportText
	if report == "" {
		report = "(empty)"
	}
	b.WriteString(labelStyle.Render("Report: ") + report)
	b.WriteString("\n")
	b.WriteString(m.legend())
	return b.String()
}

func (m *AppModel) legend() string {
	counts := m.sess.Counts()
	toggles := m.sess.State().Toggles
	entry := func(key string, r model.Role, label string) string {
		text := fmt.Sprintf("[%s] %s %d", key, label, counts[r])
		if !toggles.Roles.Enabled(r) {
			return offStyle.Render(text)
		}
		return RoleStyle(r).Render(text)
	}
	parts := []string{
		entry("1", model.RoleReported, "reported"),
		entry("2", model.RoleSubmitter, "submitter"),
		entry("3", model.RoleExtra, "extras"),
	}
	if extras := m.sess.Names().Extras; len(extras) > 0 {
		parts[2] += labelStyle.Render(" (" + strings.Join(extras, ", ") + ")")
	}
	flags := fmt.Sprintf("hide:%s ads:%s icons:%d", onOff(toggles.HideMode), onOff(toggles.AdsMode), m.sess.MaxReportedIcons())
	return strings.Join(parts, "  ") + labelStyle.Render("  │ "+flags)
}

func (m *AppModel) name(n string) string {
	if n == "" {
		return "-"
	}
	g, ok := m.genders[strings.ToLower(n)]
	return nameStyle(g, ok).Render(n)
}

func logFooter() string {
	return footerStyle.Render("j/k: move  space: select  enter: open  h: hide  a: ads  1/2/3: roles  n/N: next/prev  e: extras  p: people  t: local time  c: compact  H: header  r/s: profiles  [/]: prev/next log  q: quit")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
