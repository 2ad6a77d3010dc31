package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	app        *App
	plainFlag  bool
	appFactory = setup
)

var rootCmd = &cobra.Command{
	Use:   "wtt",
	Short: "Work Tracker – clock in, clock out, hit your weekly hours",
	Long: `wtt records daily clock-in and clock-out times, leave days and
half-days, and shows progress toward a weekly hour target.
All data is stored locally in ~/.wtt/ (override with WTT_HOME).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFactory(cmd.Context(), plainFlag)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	},
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if app != nil {
		_ = app.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Disable colors and borders")

	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(outlookCmd)
}
