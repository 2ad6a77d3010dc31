package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/work-tracker/internal/hours"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/progress"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var (
	exportFormat string
	exportOffset int
	exportAll    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export work records to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
	exportCmd.Flags().IntVarP(&exportOffset, "offset", "o", 0, "Week relative to this one (-1 = last week)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every record instead of one week")
}

func runExport(cmd *cobra.Command, args []string) error {
	recs := app.Records.Records()
	if !exportAll {
		recs = progress.InWindow(recs, timecalc.WeekWindow(app.Records.Now(), exportOffset))
	}
	return writeRecords(cmd.OutOrStdout(), recs, exportFormat)
}

func writeRecords(out io.Writer, recs []model.WorkRecord, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	case "md":
		printList(out, recs)
		return nil
	case "csv", "":
		printCSV(out, recs)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want csv, json, yaml or md)", format)
	}
}

func printCSV(out io.Writer, recs []model.WorkRecord) {
	fmt.Fprintln(out, "id,date,work_type,clock_in,clock_out,break_hours,total_hours")
	for _, r := range recs {
		in, clockOut, total := "", "", ""
		if r.ClockIn != nil {
			in = *r.ClockIn
		}
		if r.ClockOut != nil {
			clockOut = *r.ClockOut
		}
		if r.TotalHours != nil {
			total = strconv.FormatFloat(*r.TotalHours, 'f', -1, 64)
		}
		fmt.Fprintf(out, "%s,%s,%s,%s,%s,%s,%s\n",
			csvEscape(r.ID),
			csvEscape(r.Date),
			csvEscape(string(r.WorkType)),
			csvEscape(in),
			csvEscape(clockOut),
			strconv.FormatFloat(hours.BreakTaken(r), 'f', -1, 64),
			total,
		)
	}
}

// csvEscape quotes a field containing a comma, quote or line break.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
