package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/render"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the snapshots waiting for the mirror directory",
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List pending snapshots",
	Args:  cobra.NoArgs,
	RunE:  runQueueStatus,
}

var queueDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Write pending snapshots to the mirror directory now",
	Args:  cobra.NoArgs,
	RunE:  runQueueDrain,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all pending snapshots",
	Args:  cobra.NoArgs,
	RunE:  runQueueClear,
}

func init() {
	queueCmd.AddCommand(queueStatusCmd, queueDrainCmd, queueClearCmd)
}

func runQueueStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printMirrorStatus(out)
	pending := app.Queue.Pending()
	if len(pending) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	rows := make([][]string, 0, len(pending))
	for _, a := range pending {
		rows = append(rows, []string{shortID(a.ID), a.Type, humanize.Time(a.Timestamp), humanize.Bytes(uint64(len(a.Data)))})
	}
	fmt.Fprint(out, render.Table([]string{"ID", "Type", "Queued", "Size"}, rows))
	return nil
}

func runQueueDrain(cmd *cobra.Command, args []string) error {
	if app.Config.Backup.MirrorDir == "" {
		return fmt.Errorf("no mirror directory configured (backup.mirror_dir or WTT_MIRROR_DIR)")
	}
	if !app.Mirror.Online() {
		return fmt.Errorf("mirror directory %s is unreachable; %d snapshots stay queued", app.Config.Backup.MirrorDir, app.Queue.Size())
	}
	n, err := app.Queue.Drain(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d snapshots, %d pending.\n", n, app.Queue.Size())
	return err
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	n := app.Queue.Size()
	if err := app.Queue.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d pending snapshots.\n", n)
	return nil
}
