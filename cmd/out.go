package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/hours"
	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var outCmd = &cobra.Command{
	Use:     "out",
	Aliases: []string{"stop"},
	Short:   "Clock out for today",
	Args:    cobra.NoArgs,
	RunE:    runOut,
}

func runOut(cmd *cobra.Command, args []string) error {
	rec, err := app.Records.ClockOut(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Clocked out at %s. Worked %s",
		render.Bold(*rec.ClockOut), render.Good(totalText(rec)))
	if b := hours.BreakTaken(rec); b > 0 {
		fmt.Fprintf(out, " (%s break deducted)", timecalc.FormatHours(b))
	}
	fmt.Fprintln(out, ".")

	week := app.Records.Week(0, app.Config.WeeklyTargetHours)
	fmt.Fprintf(out, "This week: %s\n", render.ProgressBar(week.Progress.ProgressPercentage, 20))
	return nil
}
