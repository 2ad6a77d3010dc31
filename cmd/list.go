package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/hours"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/progress"
	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var (
	listOffset int
	listAll    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List work records of a week",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listOffset, "offset", "o", 0, "Week relative to this one (-1 = last week)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "List every record")
}

func runList(cmd *cobra.Command, args []string) error {
	recs := app.Records.Records()
	if !listAll {
		w := timecalc.WeekWindow(app.Records.Now(), listOffset)
		recs = progress.InWindow(recs, w)
		fmt.Fprintf(cmd.OutOrStdout(), "Week %s (%s – %s)\n\n", w.Label(), w.StartDate(), w.EndDate())
	}
	printList(cmd.OutOrStdout(), recs)
	return nil
}

// printList prints records as a table, one row per date.
func printList(out io.Writer, recs []model.WorkRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "No records found.")
		return
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, recordRow(r))
	}
	fmt.Fprint(out, render.Table([]string{"ID", "Date", "Day", "Type", "In", "Out", "Break", "Hours"}, rows))
}

func recordRow(r model.WorkRecord) []string {
	day := ""
	if d, err := timecalc.ParseDate(r.Date); err == nil {
		day = d.Weekday().String()[:3]
	}
	in, out := "", ""
	if r.ClockIn != nil {
		in = *r.ClockIn
	}
	if r.ClockOut != nil {
		out = *r.ClockOut
	} else if r.IsOpen() {
		out = render.Dim("open")
	}
	brk := ""
	if b := hours.BreakTaken(r); b > 0 {
		brk = timecalc.FormatHours(b)
	}
	total := ""
	if r.TotalHours != nil {
		total = timecalc.FormatHours(*r.TotalHours)
	}
	return []string{shortID(r.ID), r.Date, day, render.WorkType(r.WorkType), in, out, brk, total}
}

// totalText formats the record's hours, or "open" while the day has no
// clock-out yet.
func totalText(r model.WorkRecord) string {
	switch {
	case r.TotalHours != nil:
		return timecalc.FormatHours(*r.TotalHours)
	case r.IsOpen():
		return "open"
	default:
		return timecalc.FormatHours(0)
	}
}

// shortID abbreviates a UUID for display. Commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
