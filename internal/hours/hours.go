// Package hours converts clock-in/clock-out pairs and leave
// classifications into break-adjusted worked-hour totals.
//
// Every function here is total: reversed, equal or malformed clock times
// yield zero hours rather than an error.
package hours

import (
	"math"

	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

const (
	// LeaveHours is credited for a full day of annual leave.
	LeaveHours = 8.0
	// HalfDayCredit is credited for a half-day leave before any work.
	HalfDayCredit = 4.0

	longShift  = 8.0
	shortShift = 4.0
)

// Elapsed returns the hours between the clamped clock times, floored at 0.
func Elapsed(clockIn, clockOut string) float64 {
	in, err := timecalc.ToMinutes(clockIn)
	if err != nil {
		return 0
	}
	out, err := timecalc.ToMinutes(clockOut)
	if err != nil {
		return 0
	}
	mins := timecalc.ClampMinutes(out) - timecalc.ClampMinutes(in)
	return math.Max(0, float64(mins)/60)
}

// BreakDeduction returns the mandatory rest time for a stretch of
// elapsed work: 1h from 8h, 0.5h from 4h, none below.
func BreakDeduction(elapsed float64) float64 {
	switch {
	case elapsed >= longShift:
		return 1
	case elapsed >= shortShift:
		return 0.5
	default:
		return 0
	}
}

// Worked returns the break-adjusted hours for a regular work day.
func Worked(clockIn, clockOut string) float64 {
	elapsed := Elapsed(clockIn, clockOut)
	return math.Max(0, elapsed-BreakDeduction(elapsed))
}

// HalfDay returns the hours for a morning or afternoon half-day leave:
// the 4h credit plus any clocked work. Breaks come out of the worked
// portion only, never out of the credit.
func HalfDay(clockIn, clockOut *string) float64 {
	if clockIn == nil || clockOut == nil {
		return HalfDayCredit
	}
	raw := Elapsed(*clockIn, *clockOut)

	adjusted := raw
	switch {
	case HalfDayCredit+raw >= longShift:
		adjusted = math.Max(0, raw-1)
	case raw >= shortShift:
		adjusted = math.Max(0, raw-0.5)
	}
	return HalfDayCredit + adjusted
}

// Leave returns the hours credited for annual leave.
func Leave() float64 {
	return LeaveHours
}

// Total computes the authoritative TotalHours for r. It returns nil for
// a work day that has not been clocked out yet.
func Total(r model.WorkRecord) *float64 {
	switch {
	case r.WorkType == model.WorkTypeAnnualLeave:
		return model.FloatPtr(Leave())
	case r.WorkType.IsHalfDay():
		return model.FloatPtr(HalfDay(r.ClockIn, r.ClockOut))
	case r.ClockIn != nil && r.ClockOut != nil:
		return model.FloatPtr(Worked(*r.ClockIn, *r.ClockOut))
	default:
		return nil
	}
}

// Apply normalizes r in place after a mutation: annual leave carries no
// clock times and TotalHours is recomputed from the remaining fields.
func Apply(r *model.WorkRecord) {
	if r.WorkType == "" {
		r.WorkType = model.WorkTypeWork
	}
	if r.WorkType == model.WorkTypeAnnualLeave {
		r.ClockIn = nil
		r.ClockOut = nil
	}
	r.TotalHours = Total(*r)
}

// Normalize prepares a record that came from outside the service, such
// as a backup: empty clock strings count as absent and the derived fields
// are recomputed by Apply.
func Normalize(r *model.WorkRecord) {
	if r.ClockIn != nil && *r.ClockIn == "" {
		r.ClockIn = nil
	}
	if r.ClockOut != nil && *r.ClockOut == "" {
		r.ClockOut = nil
	}
	Apply(r)
}

// BreakTaken returns the hours deducted from r's clocked time, for
// display next to the total.
func BreakTaken(r model.WorkRecord) float64 {
	if r.ClockIn == nil || r.ClockOut == nil || r.TotalHours == nil {
		return 0
	}
	raw := Elapsed(*r.ClockIn, *r.ClockOut)
	credit := 0.0
	if r.WorkType.IsHalfDay() {
		credit = HalfDayCredit
	}
	return math.Max(0, raw+credit-*r.TotalHours)
}
