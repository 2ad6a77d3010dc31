package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/msgraph"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Book out-of-office calendar events as leave",
	Long: `Read the Outlook calendar and book out-of-office events as annual
leave or half-days. By default the range runs from today through the
configured lookahead (outlook.lookahead_days).`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD), inclusive")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a single date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned bookings without writing")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the flags into a half-open [from, to) range of whole days.
func syncRange(now time.Time, date, fromFlag, toFlag string, lookahead int) (time.Time, time.Time, error) {
	if date != "" {
		d, err := timecalc.ParseDate(date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", date, err)
		}
		return d, d.AddDate(0, 0, 1), nil
	}

	from := timecalc.StartOfDay(now)
	if fromFlag != "" {
		d, err := timecalc.ParseDate(fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", fromFlag, err)
		}
		from = d
	}

	to := from.AddDate(0, 0, lookahead+1)
	if toFlag != "" {
		d, err := timecalc.ParseDate(toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", toFlag, err)
		}
		to = d.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("--to must not be before --from")
	}
	return from, to, nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := app.Config

	from, to, err := syncRange(app.Records.Now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo, cfg.Outlook.LookaheadDays)
	if err != nil {
		return err
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		timecalc.FormatDate(from), timecalc.FormatDate(to.AddDate(0, 0, -1)), dryTag)

	tok, oauthCfg, err := msgraph.Authenticate(ctx, cfg.Home, cfg.Outlook.TenantID, cfg.Outlook.ClientID, out)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	client := msgraph.NewClient(ctx, cfg.Home, tok, oauthCfg)

	result, err := msgraph.Sync(ctx, client, app.Records, msgraph.SyncOptions{
		From:   from,
		To:     to,
		DryRun: outlookSyncDryRun,
	}, out)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		return fmt.Errorf("%d events could not be booked", result.Errors)
	}
	return nil
}
