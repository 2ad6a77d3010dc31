// Package progress aggregates a week of work records into hours, progress
// toward the weekly target and a per-day recommendation.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/Tiliavir/work-tracker/internal/hours"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

// DefaultTargetHours is the weekly goal for a flexible 40-hour week.
const DefaultTargetHours = 40.0

const (
	tooHighDailyHours = 10.0
	relaxedDailyHours = 4.0
)

// Progress describes the week's hours against its target.
type Progress struct {
	CurrentHours       float64 `json:"currentHours" yaml:"currentHours"`
	TargetHours        float64 `json:"targetHours" yaml:"targetHours"`
	ProgressPercentage float64 `json:"progressPercentage" yaml:"progressPercentage"`
	RemainingHours     float64 `json:"remainingHours" yaml:"remainingHours"`
	IsOvertime         bool    `json:"isOvertime" yaml:"isOvertime"`
	OvertimeHours      float64 `json:"overtimeHours" yaml:"overtimeHours"`
}

// Recommendation spreads the remaining hours over the remaining workdays.
type Recommendation struct {
	RemainingWorkDays     int     `json:"remainingWorkDays" yaml:"remainingWorkDays"`
	RecommendedDailyHours float64 `json:"recommendedDailyHours" yaml:"recommendedDailyHours"`
	CanTakeEarly          bool    `json:"canTakeEarly" yaml:"canTakeEarly"`
}

// EffectiveHours returns what r contributes to the weekly sum. Persisted
// TotalHours is trusted; the half-day fallback only covers legacy data.
func EffectiveHours(r model.WorkRecord) float64 {
	switch {
	case r.WorkType == model.WorkTypeAnnualLeave:
		return hours.LeaveHours
	case r.WorkType.IsHalfDay():
		if r.TotalHours == nil {
			return hours.HalfDayCredit
		}
		return *r.TotalHours
	default:
		if r.TotalHours == nil {
			return 0
		}
		return *r.TotalHours
	}
}

// InWindow returns the records dated inside w, sorted by date.
func InWindow(records []model.WorkRecord, w timecalc.Window) []model.WorkRecord {
	out := []model.WorkRecord{}
	for _, r := range records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeeklyHours sums the effective hours of every record inside w.
func WeeklyHours(records []model.WorkRecord, w timecalc.Window) float64 {
	var total float64
	for _, r := range records {
		if w.Contains(r.Date) {
			total += EffectiveHours(r)
		}
	}
	return total
}

// Weekly computes progress of current hours against target. A
// non-positive target falls back to DefaultTargetHours.
func Weekly(current, target float64) Progress {
	if target <= 0 {
		target = DefaultTargetHours
	}
	return Progress{
		CurrentHours:       current,
		TargetHours:        target,
		ProgressPercentage: math.Min(current/target*100, 100),
		RemainingHours:     math.Max(target-current, 0),
		IsOvertime:         current > target,
		OvertimeHours:      math.Max(current-target, 0),
	}
}

// IsWorkDay reports whether t is Monday through Friday.
func IsWorkDay(t time.Time) bool {
	day := t.Weekday()
	return day >= time.Monday && day <= time.Friday
}

// RemainingWorkDays counts weekdays from ref's date through the end of w,
// inclusive. For a future week counting starts at the window's Monday.
func RemainingWorkDays(ref time.Time, w timecalc.Window, offset int) int {
	from := timecalc.StartOfDay(ref)
	if offset > 0 && from.Before(w.Start) {
		from = w.Start
	}
	n := 0
	for d := from; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		if IsWorkDay(d) {
			n++
		}
	}
	return n
}

// Recommend derives the daily recommendation for the rest of the week.
func Recommend(p Progress, ref time.Time, w timecalc.Window, offset int) Recommendation {
	days := RemainingWorkDays(ref, w, offset)
	daily := 0.0
	if days > 0 {
		daily = math.Max(0, p.RemainingHours/float64(days))
	}
	return Recommendation{
		RemainingWorkDays:     days,
		RecommendedDailyHours: daily,
		CanTakeEarly:          p.CurrentHours >= p.TargetHours,
	}
}

// StatusKind summarizes where the week stands.
type StatusKind string

const (
	StatusGoalReached StatusKind = "goal_reached"
	StatusShort       StatusKind = "short"
	StatusOnTrack     StatusKind = "on_track"
)

// Status classifies the week for the headline message.
func Status(rec Recommendation) StatusKind {
	switch {
	case rec.CanTakeEarly:
		return StatusGoalReached
	case rec.RemainingWorkDays == 0:
		return StatusShort
	default:
		return StatusOnTrack
	}
}

// AdviceKind is the hint shown under the progress bar.
type AdviceKind string

const (
	AdviceTakeEarly AdviceKind = "take_early"
	AdviceTooHigh   AdviceKind = "too_high"
	AdviceRelaxed   AdviceKind = "relaxed"
	AdviceNormal    AdviceKind = "normal"
)

// Advice picks a hint from the recommendation.
func Advice(rec Recommendation) AdviceKind {
	switch {
	case rec.CanTakeEarly:
		return AdviceTakeEarly
	case rec.RecommendedDailyHours > tooHighDailyHours:
		return AdviceTooHigh
	case rec.RecommendedDailyHours < relaxedDailyHours && rec.RemainingWorkDays > 0:
		return AdviceRelaxed
	default:
		return AdviceNormal
	}
}

// Week is the display-ready summary of one week.
type Week struct {
	Label          string             `json:"week" yaml:"week"`
	Start          string             `json:"start" yaml:"start"`
	End            string             `json:"end" yaml:"end"`
	Offset         int                `json:"offset" yaml:"offset"`
	Records        []model.WorkRecord `json:"records" yaml:"records"`
	Progress       Progress           `json:"progress" yaml:"progress"`
	Recommendation Recommendation     `json:"recommendation" yaml:"recommendation"`
	Status         StatusKind         `json:"status" yaml:"status"`
	Advice         AdviceKind         `json:"advice" yaml:"advice"`
}

// Summarize builds the Week for offset relative to ref.
func Summarize(records []model.WorkRecord, ref time.Time, offset int, target float64) Week {
	w := timecalc.WeekWindow(ref, offset)
	p := Weekly(WeeklyHours(records, w), target)
	rec := Recommend(p, ref, w, offset)
	return Week{
		Label:          w.Label(),
		Start:          w.StartDate(),
		End:            w.EndDate(),
		Offset:         offset,
		Records:        InWindow(records, w),
		Progress:       p,
		Recommendation: rec,
		Status:         Status(rec),
		Advice:         Advice(rec),
	}
}
