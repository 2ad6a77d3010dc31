package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/live"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's record and this week's progress",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Keep updating the hours worked until clock-out")
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	now := app.Records.Now()

	rec, ok := app.Records.Today()
	printToday(out, rec, ok, now)

	week := app.Records.Week(0, app.Config.WeeklyTargetHours)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Week %s  %s  %s / %s\n", week.Label,
		render.ProgressBar(week.Progress.ProgressPercentage, 20),
		timecalc.FormatHours(week.Progress.CurrentHours),
		timecalc.FormatHours(week.Progress.TargetHours))
	fmt.Fprintln(out, render.StatusLine(week))
	fmt.Fprintln(out, render.AdviceLine(week))

	if statusWatch {
		if !ok || !rec.IsOpen() {
			fmt.Fprintln(out, render.Dim("Nothing to watch: no open record today."))
			return nil
		}
		return watch(cmd.Context(), out)
	}
	return nil
}

func printToday(out io.Writer, rec model.WorkRecord, ok bool, now time.Time) {
	fmt.Fprintln(out, render.Header("Today "+timecalc.FormatDate(now)))
	switch {
	case !ok:
		fmt.Fprintln(out, "Not clocked in today.")
	case rec.WorkType == model.WorkTypeAnnualLeave:
		fmt.Fprintf(out, "%s – %s credited.\n", render.WorkType(rec.WorkType), totalText(rec))
	case rec.IsOpen():
		since := clockInstant(rec.Date, *rec.ClockIn)
		worked, _ := app.Records.CurrentElapsed(now)
		fmt.Fprintf(out, "Clocked in since %s (%s ago).\n", render.Bold(*rec.ClockIn),
			formatElapsed(int64(now.Sub(since).Seconds())))
		fmt.Fprintf(out, "Worked so far: %s\n", render.Good(timecalc.FormatHours(worked)))
	case rec.ClockIn != nil && rec.ClockOut != nil:
		fmt.Fprintf(out, "%s %s–%s: %s\n", render.WorkType(rec.WorkType), *rec.ClockIn, *rec.ClockOut,
			render.Good(totalText(rec)))
	default:
		fmt.Fprintf(out, "%s: %s\n", render.WorkType(rec.WorkType), totalText(rec))
	}
}

// watch prints the running total on every tick until the day closes or
// the command is interrupted.
func watch(ctx context.Context, out io.Writer) error {
	ticker := live.New(
		func(now time.Time) (float64, bool) {
			app.Records.Refresh(ctx)
			return app.Records.CurrentElapsed(now)
		},
		time.Duration(app.Config.TickSeconds)*time.Second,
		func(worked float64, at time.Time) {
			line := fmt.Sprintf("%s  worked so far: %s", timecalc.FormatClock(at), timecalc.FormatHours(worked))
			if render.IsPlain() {
				fmt.Fprintln(out, line)
				return
			}
			fmt.Fprintf(out, "\r%s", render.Good(line))
		},
	)
	ticker.Start(ctx)
	ticker.Wait()
	fmt.Fprintln(out)
	if ctx.Err() == nil {
		fmt.Fprintln(out, "Day closed.")
	}
	return nil
}

// clockInstant returns the instant of an HH:MM clock on date.
func clockInstant(date, clock string) time.Time {
	d, err := timecalc.ParseDate(date)
	if err != nil {
		return time.Time{}
	}
	mins, err := timecalc.ToMinutes(clock)
	if err != nil {
		return d
	}
	return d.Add(time.Duration(mins) * time.Minute)
}

func formatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
