package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

func TestWeekWindowFromWednesday(t *testing.T) {
	wed := time.Date(2026, 10, 14, 15, 0, 0, 0, timecalc.Location)

	w := timecalc.WeekWindow(wed, 0)
	assert.Equal(t, "2026-10-12", w.StartDate())
	assert.Equal(t, "2026-10-18", w.EndDate())
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, time.Sunday, w.End.Weekday())
	assert.Equal(t, 0, w.Start.Hour())

	prev := timecalc.WeekWindow(wed, -1)
	assert.True(t, prev.Start.Equal(w.Start.AddDate(0, 0, -7)))
	assert.True(t, prev.End.Equal(w.End.AddDate(0, 0, -7)))

	next := timecalc.WeekWindow(wed, 1)
	assert.Equal(t, "2026-10-19", next.StartDate())
}

func TestWeekWindowEveryWeekday(t *testing.T) {
	monday := time.Date(2026, 10, 12, 12, 0, 0, 0, timecalc.Location)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		t.Run(day.Weekday().String(), func(t *testing.T) {
			w := timecalc.WeekWindow(day, 0)
			assert.Equal(t, "2026-10-12", w.StartDate())
			assert.Equal(t, "2026-10-18", w.EndDate())
		})
	}
}

func TestWeekWindowUsesCivilDate(t *testing.T) {
	// Sunday 20:00Z is Monday 05:00 in UTC+9, so the next week applies.
	sundayUTC := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	w := timecalc.WeekWindow(sundayUTC, 0)
	assert.Equal(t, "2026-10-19", w.StartDate())
}

func TestWeekWindowAcrossYearBoundary(t *testing.T) {
	thu := time.Date(2026, 1, 1, 9, 0, 0, 0, timecalc.Location)
	w := timecalc.WeekWindow(thu, 0)
	assert.Equal(t, "2025-12-29", w.StartDate())
	assert.Equal(t, "2026-01-04", w.EndDate())
	assert.Equal(t, "2026-W01", w.Label())
}

func TestWindowContains(t *testing.T) {
	w := timecalc.WeekWindow(time.Date(2026, 10, 14, 0, 0, 0, 0, timecalc.Location), 0)

	assert.True(t, w.Contains("2026-10-12"))
	assert.True(t, w.Contains("2026-10-15"))
	assert.True(t, w.Contains("2026-10-18"))
	assert.False(t, w.Contains("2026-10-11"))
	assert.False(t, w.Contains("2026-10-19"))
	assert.False(t, w.Contains("not-a-date"))
}

func TestWindowDaysAndLabel(t *testing.T) {
	w := timecalc.WeekWindow(time.Date(2026, 10, 16, 0, 0, 0, 0, timecalc.Location), 0)
	days := w.Days()
	assert.Len(t, days, 7)
	assert.Equal(t, "2026-10-12", timecalc.FormatDate(days[0]))
	assert.Equal(t, "2026-10-18", timecalc.FormatDate(days[6]))
	assert.Equal(t, "2026-W42", w.Label())
}
