package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/records"
	"github.com/Tiliavir/work-tracker/internal/render"
)

var (
	editIn   string
	editOut  string
	editType string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Correct the clock times or type of a record",
	Long: `Edit a record by id (any unique prefix shown by "wtt list").
Pass an empty value to clear a clock time, e.g. --out "".`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editIn, "in", "", "Clock-in time (HH:MM)")
	editCmd.Flags().StringVar(&editOut, "out", "", "Clock-out time (HH:MM)")
	editCmd.Flags().StringVar(&editType, "type", "", "Work type: work, annual, morning, afternoon")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := resolveID(args[0])
	if err != nil {
		return err
	}

	var u records.RecordUpdate
	if cmd.Flags().Changed("in") {
		u.ClockIn = &editIn
	}
	if cmd.Flags().Changed("out") {
		u.ClockOut = &editOut
	}
	if cmd.Flags().Changed("type") {
		wt, err := parseWorkType(editType)
		if err != nil {
			return err
		}
		u.WorkType = &wt
	}
	if u.ClockIn == nil && u.ClockOut == nil && u.WorkType == nil {
		return fmt.Errorf("nothing to change: pass --in, --out or --type")
	}

	rec, err := app.Records.Update(cmd.Context(), id, u)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Updated:")
	printList(cmd.OutOrStdout(), []model.WorkRecord{rec})
	if rec.WorkType == model.WorkTypeAnnualLeave && (u.ClockIn != nil || u.ClockOut != nil) {
		fmt.Fprintln(cmd.OutOrStdout(), render.Dim("Annual leave carries no clock times; they were dropped."))
	}
	return nil
}

// resolveID expands an id prefix to the full id of exactly one record.
func resolveID(prefix string) (string, error) {
	var matches []string
	for _, r := range app.Records.Records() {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", records.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d records", prefix, len(matches))
	}
}

// parseWorkType accepts the stored names and short aliases.
func parseWorkType(s string) (model.WorkType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work":
		return model.WorkTypeWork, nil
	case "annual", "annual_leave", "leave", "vacation":
		return model.WorkTypeAnnualLeave, nil
	case "morning", "morning_half", "am":
		return model.WorkTypeMorningHalf, nil
	case "afternoon", "afternoon_half", "pm":
		return model.WorkTypeAfternoonHalf, nil
	}
	return "", &records.ValidationError{Field: "workType", Message: fmt.Sprintf("unknown work type %q (want work, annual, morning or afternoon)", s)}
}
