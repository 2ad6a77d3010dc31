package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/work-tracker/internal/progress"
	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var (
	weekOffset int
	weekFormat string
)

var weekCmd = &cobra.Command{
	Use:     "week",
	Aliases: []string{"report"},
	Short:   "Show weekly progress toward the hour target",
	Args:    cobra.NoArgs,
	RunE:    runWeek,
}

func init() {
	weekCmd.Flags().IntVarP(&weekOffset, "offset", "o", 0, "Week relative to this one (-1 = last week)")
	weekCmd.Flags().StringVar(&weekFormat, "format", "md", "Output format: md, json, yaml")
}

func runWeek(cmd *cobra.Command, args []string) error {
	week := app.Records.Week(weekOffset, app.Config.WeeklyTargetHours)
	return writeWeek(cmd.OutOrStdout(), week, weekFormat)
}

func writeWeek(out io.Writer, week progress.Week, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(week)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(week); err != nil {
			return err
		}
		return enc.Close()
	case "md", "":
		printWeek(out, week)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want md, json or yaml)", format)
	}
}

func printWeek(out io.Writer, w progress.Week) {
	p, r := w.Progress, w.Recommendation
	fmt.Fprintf(out, "## Week %s (%s – %s)\n\n", w.Label, w.Start, w.End)

	rows := make([][]string, 0, len(w.Records))
	for _, rec := range w.Records {
		row := recordRow(rec)
		rows = append(rows, row[1:])
	}
	if len(rows) > 0 {
		fmt.Fprint(out, render.Table([]string{"Date", "Day", "Type", "In", "Out", "Break", "Hours"}, rows))
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total:     %s / %s\n", timecalc.FormatHours(p.CurrentHours), timecalc.FormatHours(p.TargetHours))
	fmt.Fprintf(out, "Progress:  %s\n", render.ProgressBar(p.ProgressPercentage, 20))
	if p.IsOvertime {
		fmt.Fprintf(out, "Overtime:  %s\n", timecalc.FormatHours(p.OvertimeHours))
	} else {
		fmt.Fprintf(out, "Remaining: %s over %d work days\n", timecalc.FormatHours(p.RemainingHours), r.RemainingWorkDays)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.StatusLine(w))
	fmt.Fprintln(out, render.AdviceLine(w))
}
