package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var leaveCmd = &cobra.Command{
	Use:   "leave <date> <type>",
	Short: "Book a day as annual leave or a half-day",
	Long: `Classify a date (YYYY-MM-DD, "today" or "tomorrow") as one of
work, annual, morning or afternoon. An existing record for that
date is updated in place.`,
	Example: `  wtt leave 2026-10-19 annual
  wtt leave today afternoon`,
	Args: cobra.ExactArgs(2),
	RunE: runLeave,
}

func runLeave(cmd *cobra.Command, args []string) error {
	date, err := parseDateArg(args[0])
	if err != nil {
		return err
	}
	wt, err := parseWorkType(args[1])
	if err != nil {
		return err
	}

	_, existed := app.Records.Lookup(date)
	rec, err := app.Records.SetWorkType(cmd.Context(), date, wt)
	if err != nil {
		return err
	}

	verb := "Booked"
	if existed {
		verb = "Changed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s as %s (%s).\n", verb, rec.Date,
		render.WorkType(rec.WorkType), totalText(rec))
	return nil
}

// parseDateArg accepts YYYY-MM-DD, "today" and "tomorrow".
func parseDateArg(s string) (string, error) {
	now := app.Records.Now()
	switch s {
	case "today":
		return timecalc.FormatDate(now), nil
	case "tomorrow":
		return timecalc.FormatDate(now.AddDate(0, 0, 1)), nil
	case "yesterday":
		return timecalc.FormatDate(now.AddDate(0, 0, -1)), nil
	}
	if _, err := timecalc.ParseDate(s); err != nil {
		return "", err
	}
	return s, nil
}
