package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09:00:00", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := timecalc.ToMinutes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, "00:00", timecalc.FromMinutes(0))
	assert.Equal(t, "08:05", timecalc.FromMinutes(485))
	assert.Equal(t, "20:00", timecalc.FromMinutes(1200))
}

func TestClampToWindow(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"07:00", "08:00"},
		{"07:59", "08:00"},
		{"08:00", "08:00"},
		{"12:34", "12:34"},
		{"20:00", "20:00"},
		{"20:01", "20:00"},
		{"23:30", "20:00"},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timecalc.ClampToWindow(tt.input), "ClampToWindow(%q)", tt.input)
	}
}

func TestIsValidClock(t *testing.T) {
	assert.True(t, timecalc.IsValidClock("09:00"))
	assert.True(t, timecalc.IsValidClock("99:99"))
	assert.False(t, timecalc.IsValidClock("9:00"))
	assert.False(t, timecalc.IsValidClock("09:00 "))
}

func TestFormatDateUsesFixedOffset(t *testing.T) {
	// 2026-10-14T16:30Z is already 01:30 on the 15th in UTC+9.
	instant := time.Date(2026, 10, 14, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-15", timecalc.FormatDate(instant))
	assert.Equal(t, "01:30", timecalc.FormatClock(instant))
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.Equal(t, 0, d.Hour())

	_, err = timecalc.ParseDate("14.10.2026")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 10, 14, 1, 0, 0, 0, timecalc.Location)
	b := time.Date(2026, 10, 14, 23, 59, 59, 0, timecalc.Location)
	c := time.Date(2026, 10, 15, 0, 0, 0, 0, timecalc.Location)

	assert.True(t, timecalc.SameDay(a, b))
	assert.False(t, timecalc.SameDay(a, c))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0.0h", timecalc.FormatHours(0))
	assert.Equal(t, "7.5h", timecalc.FormatHours(7.5))
	assert.Equal(t, "8.3h", timecalc.FormatHours(8.25+0.01))
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
