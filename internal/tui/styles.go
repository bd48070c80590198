package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/profile"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)

	placeholderStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(lipgloss.Color("244"))

	adStyle       = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	starStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	offStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)

	roleStyles = map[model.Role]lipgloss.Style{
		model.RoleReported:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		model.RoleSubmitter: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		model.RoleExtra:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

// RoleStyle is the style messages of role r are drawn with.
func RoleStyle(r model.Role) lipgloss.Style {
	if s, ok := roleStyles[r]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// nameStyle colours a user name by profile gender once it is known.
func nameStyle(g profile.Gender, known bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if !known {
		return s
	}
	return s.Foreground(lipgloss.Color(g.Color()))
}
