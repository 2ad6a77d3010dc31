package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/backup"
	"github.com/Tiliavir/work-tracker/internal/render"
)

var backupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, import and inspect backups",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all records to a backup file",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all records with the contents of a backup file",
	Long: `Import a backup written by "wtt backup export". The whole file is
validated first; if any record is invalid nothing is changed.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace all records with the last automatic snapshot",
	Args:  cobra.NoArgs,
	RunE:  runBackupRestore,
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show when the last automatic snapshot was taken",
	Args:  cobra.NoArgs,
	RunE:  runBackupStatus,
}

func init() {
	backupExportCmd.Flags().StringVarP(&backupOut, "out", "f", "", `Output file ("-" for stdout); default work-tracker-backup-<date>.json`)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupRestoreCmd, backupStatusCmd)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	now := app.Records.Now()
	recs := app.Records.Records()

	if backupOut == "-" {
		return backup.Export(cmd.OutOrStdout(), recs, now)
	}
	path := backupOut
	if path == "" {
		path = backup.FileName(now)
	}

	var buf bytes.Buffer
	if err := backup.Export(&buf, recs, now); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	abs, _ := filepath.Abs(path)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(recs), abs)
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	before := len(app.Records.Records())
	recs, err := backup.Import(cmd.Context(), r, app.Records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records (replaced %d).\n", len(recs), before)
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	doc, err := backup.LoadAutoBackup(cmd.Context(), app.Store)
	if err != nil {
		return fmt.Errorf("no usable automatic snapshot: %w", err)
	}
	if err := app.Records.Replace(cmd.Context(), doc.Records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d records from the snapshot of %s.\n", len(doc.Records), doc.BackupDate)
	return nil
}

func runBackupStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	at, ok, err := backup.LastAutoBackup(cmd.Context(), app.Store)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Records:       %d\n", len(app.Records.Records()))
	if ok {
		fmt.Fprintf(out, "Last snapshot: %s (%s)\n", at.Format(backup.DateLayout), humanize.RelTime(at, nowFunc(), "ago", "from now"))
	} else {
		fmt.Fprintln(out, "Last snapshot: never")
	}
	printMirrorStatus(out)
	return nil
}

func printMirrorStatus(out io.Writer) {
	dir := app.Config.Backup.MirrorDir
	switch {
	case dir == "":
		fmt.Fprintln(out, "Mirror:        "+render.Dim("off (set backup.mirror_dir)"))
	case app.Mirror.Online():
		fmt.Fprintf(out, "Mirror:        %s %s\n", dir, render.Good("online"))
	default:
		fmt.Fprintf(out, "Mirror:        %s %s\n", dir, render.Warn("unreachable"))
	}
	fmt.Fprintf(out, "Queued:        %s\n", humanize.Comma(int64(app.Queue.Size())))
}
