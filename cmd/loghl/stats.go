package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/DaylightE/Log-Highlighter/internal/localtime"
	"github.com/DaylightE/Log-Highlighter/internal/model"
	"github.com/DaylightE/Log-Highlighter/internal/session"
	"github.com/DaylightE/Log-Highlighter/internal/timeline"
)

func statsCmd(g *globals) *cobra.Command {
	var (
		f     renderFlags
		width int
	)
	cmd := &cobra.Command{
		Use:   "stats <file|-|url>",
		Short: "Summarise a log: role counts, icons and activity per day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := g.openSession(cmd, args[0], f)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), sess, width)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.extras, "extras", "", "Extra names to highlight (comma or newline separated)")
	cmd.Flags().BoolVar(&f.hide, "hide", false, "Count messages that are not highlighted as hidden")
	cmd.Flags().BoolVar(&f.ads, "ads", false, "Count messages that look like ads as hidden")
	cmd.Flags().IntVar(&width, "width", timeline.DefaultWidth, "Width of the activity strips")
	return cmd
}

func writeStats(w io.Writer, sess *session.Session, width int) {
	rep := sess.Report()
	records := sess.Records()
	counts := sess.Counts()

	ads := 0
	for _, rec := range records {
		if rec.Ad {
			ads++
		}
	}

	fmt.Fprintf(w, "Messages:   %s (%s shown)\n", humanize.Comma(int64(len(records))), humanize.Comma(int64(sess.View().Snapshot.ShownCount())))
	fmt.Fprintf(w, "Reported:   %s (%s)\n", orDash(rep.ReportingUser), humanize.Comma(int64(counts[model.RoleReported])))
	fmt.Fprintf(w, "Submitter:  %s (%s)\n", orDash(rep.SubmittedBy), humanize.Comma(int64(counts[model.RoleSubmitter])))
	fmt.Fprintf(w, "Extras:     %s\n", humanize.Comma(int64(counts[model.RoleExtra])))
	fmt.Fprintf(w, "Ads:        %s\n", humanize.Comma(int64(ads)))
	fmt.Fprintf(w, "Max icons:  %d\n", sess.MaxReportedIcons())
	if t, ok := localtime.Submitted(rep.SubmittedOn); ok {
		fmt.Fprintf(w, "Submitted:  %s (%s)\n", rep.SubmittedOn, humanize.Time(t))
	}

	if days := timeline.Days(records); len(days) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, timeline.Render(days, width))
	}
}

func exportCmd(g *globals) *cobra.Command {
	var (
		f   renderFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export <file|-|url>",
		Short: "Write the log's messages as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := g.openSession(cmd, args[0], f)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}
			view := sess.View()
			if err := timeline.Export(w, sess.Records(), view.Roles, view.Snapshot.Shown); err != nil {
				return fmt.Errorf("writing csv: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&f.extras, "extras", "", "Extra names to highlight (comma or newline separated)")
	cmd.Flags().BoolVar(&f.hide, "hide", false, "Mark messages that are not highlighted as hidden")
	cmd.Flags().BoolVar(&f.ads, "ads", false, "Mark messages that look like ads as hidden")
	return cmd
}
