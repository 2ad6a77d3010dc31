package msgraph

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	From   time.Time
	To     time.Time
	DryRun bool
}

// LeaveAssigner is the record collection a sync writes into.
type LeaveAssigner interface {
	Lookup(date string) (model.WorkRecord, bool)
	SetWorkType(ctx context.Context, date string, wt model.WorkType) (model.WorkRecord, error)
}

// Leave is one day of leave derived from an out-of-office event.
type Leave struct {
	Date     string
	WorkType model.WorkType
	EventID  string
	Subject  string
}

const (
	halfDayCutoff   = 14 * 60 // morning leave ends by 14:00
	afternoonCutoff = 12 * 60 // afternoon leave starts at or after 12:00
	fullDayDuration = 8 * time.Hour
)

// parseGraphTime parses a Graph API dateTime string in UTC.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt string) (time.Time, error) {
	// Try RFC3339 first (includes timezone offset).
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// civilDate reads the calendar date of an all-day boundary. All-day events
// start and end at midnight of their own dates whatever the zone.
func civilDate(dt string) (time.Time, error) {
	if len(dt) < len(timecalc.DateLayout) {
		return time.Time{}, fmt.Errorf("cannot parse graph date %q", dt)
	}
	return timecalc.ParseDate(dt[:len(timecalc.DateLayout)])
}

// shouldSkip returns true if the event is not out-of-office time.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.ShowAs != "oof" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// weekdays returns the Monday to Friday dates in [from, to).
func weekdays(from, to time.Time) []string {
	var out []string
	for d := timecalc.StartOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, timecalc.FormatDate(d))
		}
	}
	return out
}

// MapEvent converts an out-of-office event into leave days. All-day and
// 8h+ events become annual leave on every covered weekday; shorter events
// become a morning half-day when they end by 14:00 or an afternoon
// half-day when they start at or after 12:00. Other events yield nothing.
func MapEvent(event CalendarEvent) ([]Leave, error) {
	if shouldSkip(event) {
		return nil, nil
	}

	var (
		dates []string
		wt    model.WorkType
	)
	if event.IsAllDay {
		start, err := civilDate(event.Start.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parsing start date: %w", err)
		}
		end, err := civilDate(event.End.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parsing end date: %w", err)
		}
		dates, wt = weekdays(start, end), model.WorkTypeAnnualLeave
	} else {
		startUTC, err := parseGraphTime(event.Start.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parsing start time: %w", err)
		}
		endUTC, err := parseGraphTime(event.End.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parsing end time: %w", err)
		}
		start, end := startUTC.In(timecalc.Location), endUTC.In(timecalc.Location)

		switch {
		case end.Sub(start) >= fullDayDuration:
			dates, wt = weekdays(start, end), model.WorkTypeAnnualLeave
		case !timecalc.SameDay(start, end):
			return nil, nil
		case end.Hour()*60+end.Minute() <= halfDayCutoff:
			dates, wt = []string{timecalc.FormatDate(start)}, model.WorkTypeMorningHalf
		case start.Hour()*60+start.Minute() >= afternoonCutoff:
			dates, wt = []string{timecalc.FormatDate(start)}, model.WorkTypeAfternoonHalf
		default:
			return nil, nil
		}
	}

	leaves := make([]Leave, 0, len(dates))
	for _, d := range dates {
		leaves = append(leaves, Leave{Date: d, WorkType: wt, EventID: event.ID, Subject: event.Subject})
	}
	return leaves, nil
}

// SyncEvents assigns the leave found in events. Days already carrying the
// same type are skipped, as are worked days that annual leave would wipe.
// Progress lines are written to out.
func SyncEvents(ctx context.Context, events []CalendarEvent, dst LeaveAssigner, opts SyncOptions, out io.Writer) (SyncResult, error) {
	var result SyncResult

	for _, event := range events {
		leaves, err := MapEvent(event)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		for _, l := range leaves {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			label := fmt.Sprintf("%s %s (%s)", l.Date, l.WorkType.Label(), event.Subject)

			existing, found := dst.Lookup(l.Date)
			if found && existing.WorkType == l.WorkType {
				fmt.Fprintf(out, "  – Skipped:  %s (already booked)\n", label)
				result.Skipped++
				continue
			}
			if found && l.WorkType == model.WorkTypeAnnualLeave && existing.ClockIn != nil {
				fmt.Fprintf(out, "  – Skipped:  %s (day has clocked time)\n", label)
				result.Skipped++
				continue
			}

			if !opts.DryRun {
				if _, err := dst.SetWorkType(ctx, l.Date, l.WorkType); err != nil {
					fmt.Fprintf(out, "  ! Error saving %s: %v\n", label, err)
					result.Errors++
					continue
				}
			}
			if found {
				fmt.Fprintf(out, "  ↑ Updated:  %s\n", label)
				result.Updated++
			} else {
				fmt.Fprintf(out, "  ✓ Imported: %s\n", label)
				result.Imported++
			}
		}
	}

	return result, nil
}

// Sync fetches the calendar between opts.From and opts.To and imports the
// out-of-office events found there.
func Sync(ctx context.Context, c *Client, dst LeaveAssigner, opts SyncOptions, out io.Writer) (SyncResult, error) {
	events, err := c.GetCalendarView(ctx, opts.From, opts.To)
	if err != nil {
		return SyncResult{}, err
	}
	fmt.Fprintf(out, "Found %d calendar events between %s and %s\n",
		len(events), timecalc.FormatDate(opts.From), timecalc.FormatDate(opts.To))
	return SyncEvents(ctx, events, dst, opts, out)
}
