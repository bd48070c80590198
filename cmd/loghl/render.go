package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/session"
	"github.com/DaylightE/Log-Highlighter/internal/tui"
)

var (
	renderLabel       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	renderPlaceholder = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	renderAd          = lipgloss.NewStyle().Faint(true)
	renderSelected    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)

type renderFlags struct {
	hide       bool
	ads        bool
	extras     string
	localTimes bool
	selected   []int
	timezone   string
}

func renderCmd(g *globals) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <file|-|url>",
		Short: "Print a highlighted log to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := g.openSession(cmd, args[0], f)
			if err != nil {
				return err
			}
			writeRendered(cmd.OutOrStdout(), sess)
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.hide, "hide", false, "Collapse messages that are not highlighted")
	cmd.Flags().BoolVar(&f.ads, "ads", false, "Collapse messages that look like ads")
	cmd.Flags().StringVar(&f.extras, "extras", "", "Extra names to highlight (comma or newline separated)")
	cmd.Flags().BoolVar(&f.localTimes, "local-times", false, "Convert timestamps into the local zone")
	cmd.Flags().IntSliceVar(&f.selected, "select", nil, "Message indices to mark as selected")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "Zone for --local-times (default: local)")
	return cmd
}

// openSession loads src and applies the render flags to a fresh session.
func (g *globals) openSession(cmd *cobra.Command, src string, f renderFlags) (*session.Session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	caps, err := capabilities(cfg.Features)
	if err != nil {
		return nil, err
	}
	loc, err := location(f.timezone)
	if err != nil {
		return nil, err
	}
	doc, err := loadDocument(cmd.Context(), cfg, src)
	if err != nil {
		return nil, err
	}

	extras := cfg.Defaults.Extras
	if cmd.Flags().Changed("extras") {
		extras = nil
	}
	localTimes := cfg.Defaults.LocalTimes
	if cmd.Flags().Changed("local-times") {
		localTimes = f.localTimes
	}
	sess := session.New(doc, session.Options{
		Capabilities: caps,
		Extras:       extras,
		LocalTimes:   localTimes,
		Location:     loc,
		Logger:       stderrLogger(cfg),
	})
	if f.extras != "" {
		sess.Apply(session.SetExtras{Raw: f.extras})
	}
	for _, i := range f.selected {
		if !sess.Selected(i) {
			sess.Apply(session.ToggleSelect{Index: i})
		}
	}
	if f.hide {
		sess.Apply(session.ToggleHide{})
	}
	if f.ads {
		sess.Apply(session.ToggleAds{})
	}
	return sess, nil
}

func writeRendered(w io.Writer, sess *session.Session) {
	rep := sess.Report()
	fmt.Fprintln(w, renderLabel.Render("Submitted by: ")+orDash(rep.SubmittedBy)+renderLabel.Render("  on: ")+orDash(rep.SubmittedOn))
	tab := orDash(rep.Tab)
	if rep.TabStarred {
		tab += " ★"
	}
	fmt.Fprintln(w, renderLabel.Render("Reported: ")+orDash(rep.ReportingUser)+renderLabel.Render("  Tab: ")+tab)
	fmt.Fprintln(w, renderLabel.Render("Report: ")+orDash(rep.ReportText))
	fmt.Fprintln(w)

	view := sess.View()
	for _, it := range view.Snapshot.Layout() {
		if it.IsPlaceholder() {
			sign := "[+] "
			if it.Placeholder.Open {
				sign = "[-] "
			}
			fmt.Fprintln(w, "  "+renderPlaceholder.Render(sign+it.Placeholder.Label()))
			continue
		}
		fmt.Fprintln(w, renderMessage(sess, view.Roles, it.Message))
	}
}

func renderMessage(sess *session.Session, roles []model.Role, i int) string {
	style := tui.RoleStyle(roles[i])
	if roles[i] == model.RoleNone && sess.Records()[i].Ad {
		style = renderAd
	}
	mark := "  "
	if sess.Selected(i) {
		mark = renderSelected.Render("●") + " "
	}
	lines := strings.Split(sess.Text(i), "\n")
	for j, l := range lines {
		prefix := "  "
		if j == 0 {
			prefix = mark
		}
		lines[j] = prefix + style.Render(l)
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
