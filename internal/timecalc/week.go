package timecalc

import (
	"fmt"
	"time"
)

// Window is a Monday-aligned, 7-day range of civil dates. Both ends are
// inclusive; End is local midnight of the Sunday.
type Window struct {
	Start time.Time
	End   time.Time
}

// WeekWindow returns the week containing ref shifted by offset weeks.
func WeekWindow(ref time.Time, offset int) Window {
	d := ref.In(Location).AddDate(0, 0, offset*7)

	// Sunday=0 … Saturday=6; Sunday belongs to the week that started six
	// days earlier.
	back := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		back = 6
	}
	monday := d.AddDate(0, 0, -back)
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, Location)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// StartDate returns the Monday as YYYY-MM-DD.
func (w Window) StartDate() string { return FormatDate(w.Start) }

// EndDate returns the Sunday as YYYY-MM-DD.
func (w Window) EndDate() string { return FormatDate(w.End) }

// Contains reports whether the civil date falls inside the window.
func (w Window) Contains(date string) bool {
	if _, err := ParseDate(date); err != nil {
		return false
	}
	// YYYY-MM-DD strings order the same way as the dates they name.
	return date >= w.StartDate() && date <= w.EndDate()
}

// Days returns local midnight of each of the seven days, Monday first.
func (w Window) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// Label returns the ISO week label, like "2026-W42".
func (w Window) Label() string {
	year, week := w.Start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
