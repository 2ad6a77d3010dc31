package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/progress"
)

func withPlain(t *testing.T) {
	t.Helper()
	prev := IsPlain()
	SetPlain(true)
	t.Cleanup(func() { SetPlain(prev) })
}

func TestProgressBar(t *testing.T) {
	withPlain(t)
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0%"},
		{"half", 50, 4, "[██░░]  50%"},
		{"full", 100, 4, "[████] 100%"},
		{"over 100 clamps", 150, 4, "[████] 100%"},
		{"negative clamps", -5, 4, "[░░░░]   0%"},
		{"tiny width clamps to 2", 50, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressBar(tt.pct, tt.width))
		})
	}
}

func TestPlainModeHasNoEscapes(t *testing.T) {
	withPlain(t)
	for _, s := range []string{Header("week"), Dim("x"), Bold("x"), Good("x"), Bad("x"), Box("t", "body")} {
		assert.NotContains(t, s, "\x1b[")
	}
	assert.Equal(t, "WEEK\n────", Header("week"))
}

func TestWorkTypeLabel(t *testing.T) {
	withPlain(t)
	assert.Equal(t, "Annual leave", WorkType(model.WorkTypeAnnualLeave))
	assert.Equal(t, "Morning half-day", WorkType(model.WorkTypeMorningHalf))
	assert.Equal(t, "Work", WorkType(model.WorkTypeWork))
}

func TestStatusAndAdviceLines(t *testing.T) {
	withPlain(t)
	tests := []struct {
		name       string
		week       progress.Week
		wantStatus string
		wantAdvice string
	}{
		{
			name: "overtime",
			week: progress.Week{
				Progress:       progress.Progress{IsOvertime: true, OvertimeHours: 2.5},
				Recommendation: progress.Recommendation{CanTakeEarly: true},
				Status:         progress.StatusGoalReached,
				Advice:         progress.AdviceTakeEarly,
			},
			wantStatus: "Goal reached, 2.5h overtime",
			wantAdvice: "You can leave early",
		},
		{
			name: "short",
			week: progress.Week{
				Progress: progress.Progress{RemainingHours: 6},
				Status:   progress.StatusShort,
				Advice:   progress.AdviceNormal,
			},
			wantStatus: "6.0h short",
			wantAdvice: "No work days left",
		},
		{
			name: "too high",
			week: progress.Week{
				Progress:       progress.Progress{RemainingHours: 22},
				Recommendation: progress.Recommendation{RemainingWorkDays: 2, RecommendedDailyHours: 11},
				Status:         progress.StatusOnTrack,
				Advice:         progress.AdviceTooHigh,
			},
			wantStatus: "22.0h to go",
			wantAdvice: "11.0h/day over 2 days exceeds",
		},
		{
			name: "normal",
			week: progress.Week{
				Progress:       progress.Progress{RemainingHours: 24},
				Recommendation: progress.Recommendation{RemainingWorkDays: 3, RecommendedDailyHours: 8},
				Status:         progress.StatusOnTrack,
				Advice:         progress.AdviceNormal,
			},
			wantStatus: "24.0h to go",
			wantAdvice: "8.0h/day over 3 days",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, StatusLine(tt.week), tt.wantStatus)
			assert.Contains(t, AdviceLine(tt.week), tt.wantAdvice)
		})
	}
}

func TestTable(t *testing.T) {
	withPlain(t)
	got := Table([]string{"Date", "Hours"}, [][]string{{"2026-10-12", "8.0h"}, {"2026-10-13"}})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, []string{
		"Date        Hours",
		"──────────  ─────",
		"2026-10-12  8.0h",
		"2026-10-13  ",
	}, lines)
	assert.Empty(t, Table(nil, nil))
}
