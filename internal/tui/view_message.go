package tui

import (
	"fmt"
	"strings"
)

// messageHeader is shown above a single message in the detail view.
func (m *AppModel) messageHeader(i int) string {
	rec := m.sess.Records()[i]
	lines := []string{
		fmt.Sprintf("Message %d of %d", i+1, len(m.sess.Records())),
		"Time: " + rec.Timestamp,
		"Role: " + m.roles()[i].String(),
	}
	if name := SenderName(rec); name != "" {
		lines = append(lines, "Sender: "+m.name(name))
	}
	if rec.Ad {
		lines = append(lines, "Looks like an ad")
	}
	return headerStyle.PaddingBottom(1).Render(strings.Join(lines, "\n"))
}

func messageFooter() string {
	return footerStyle.Render("o: open sender profile  space: select  esc: back  q: quit")
}
