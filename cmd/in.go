package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var inCmd = &cobra.Command{
	Use:     "in",
	Aliases: []string{"start"},
	Short:   "Clock in for today",
	Args:    cobra.NoArgs,
	RunE:    runIn,
}

func runIn(cmd *cobra.Command, args []string) error {
	rec, err := app.Records.ClockIn(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Clocked in at %s on %s.\n", render.Bold(*rec.ClockIn), rec.Date)
	if in := timecalc.ClampToWindow(*rec.ClockIn); in != *rec.ClockIn {
		fmt.Fprintln(out, render.Dim(fmt.Sprintf("Time before %s is not counted.", in)))
	}
	if rec.WorkType.IsHalfDay() {
		fmt.Fprintf(out, "Today is a %s; 4h leave credit already counts.\n", render.WorkType(rec.WorkType))
	}
	return nil
}
