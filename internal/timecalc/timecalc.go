package timecalc

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// Location is the fixed civil-time convention used for every date and
// clock string in the tracker (UTC+9, no daylight saving).
var Location = time.FixedZone("UTC+9", 9*60*60)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// WindowStart and WindowEnd bound the recognized working window in
	// minutes since midnight. Clock times outside it are clamped.
	WindowStart = 8 * 60
	WindowEnd   = 20 * 60
)

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// IsValidClock reports whether s has the HH:MM shape required of imported
// clock strings. It does not range-check the digits.
func IsValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ToMinutes parses an HH:MM string into minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	if !IsValidClock(hhmm) {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", hhmm)
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", hhmm)
	}
	return h*60 + m, nil
}

// FromMinutes formats minutes since midnight as HH:MM.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClampMinutes clamps minutes since midnight to the recognized window.
func ClampMinutes(minutes int) int {
	if minutes < WindowStart {
		return WindowStart
	}
	if minutes > WindowEnd {
		return WindowEnd
	}
	return minutes
}

// ClampToWindow clamps an HH:MM string to [08:00, 20:00]. Malformed input
// is returned unchanged.
func ClampToWindow(hhmm string) string {
	m, err := ToMinutes(hhmm)
	if err != nil {
		return hhmm
	}
	return FromMinutes(ClampMinutes(m))
}

// FormatDate returns t's civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// FormatClock returns t's civil time of day as HH:MM.
func FormatClock(t time.Time) string {
	return t.In(Location).Format(ClockLayout)
}

// ParseDate parses a YYYY-MM-DD civil date at local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// StartOfDay returns local midnight of t's civil date.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// SameDay reports whether two instants fall on the same civil date.
func SameDay(a, b time.Time) bool {
	return FormatDate(a) == FormatDate(b)
}

// FormatHours renders fractional hours with one decimal, like "7.5h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", math.Round(h*10)/10)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
