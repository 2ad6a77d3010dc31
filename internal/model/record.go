package model

// WorkType classifies a calendar day.
type WorkType string

const (
	WorkTypeWork          WorkType = "work"
	WorkTypeAnnualLeave   WorkType = "annual_leave"
	WorkTypeMorningHalf   WorkType = "morning_half"
	WorkTypeAfternoonHalf WorkType = "afternoon_half"
)

// WorkTypes lists every valid WorkType in display order.
var WorkTypes = []WorkType{
	WorkTypeWork,
	WorkTypeAnnualLeave,
	WorkTypeMorningHalf,
	WorkTypeAfternoonHalf,
}

// Valid reports whether w is one of the known work types.
func (w WorkType) Valid() bool {
	for _, t := range WorkTypes {
		if w == t {
			return true
		}
	}
	return false
}

// IsHalfDay reports whether w is a morning or afternoon half-day leave.
func (w WorkType) IsHalfDay() bool {
	return w == WorkTypeMorningHalf || w == WorkTypeAfternoonHalf
}

// IsLeave reports whether w is any kind of leave.
func (w WorkType) IsLeave() bool {
	return w != WorkTypeWork && w != ""
}

// Label returns a short human-readable name.
func (w WorkType) Label() string {
	switch w {
	case WorkTypeAnnualLeave:
		return "Annual leave"
	case WorkTypeMorningHalf:
		return "Morning half-day"
	case WorkTypeAfternoonHalf:
		return "Afternoon half-day"
	default:
		return "Work"
	}
}

// WorkRecord is the single entry stored per calendar date.
//
// TotalHours is derived from WorkType, ClockIn and ClockOut and is never
// set directly by the user. It is nil for a day that is still open.
type WorkRecord struct {
	ID         string   `json:"id" yaml:"id"`
	Date       string   `json:"date" yaml:"date"`
	WorkType   WorkType `json:"workType" yaml:"workType"`
	ClockIn    *string  `json:"clockIn,omitempty" yaml:"clockIn,omitempty"`
	ClockOut   *string  `json:"clockOut,omitempty" yaml:"clockOut,omitempty"`
	TotalHours *float64 `json:"totalHours,omitempty" yaml:"totalHours,omitempty"`
}

// IsOpen reports whether the record has a clock-in but no clock-out.
func (r WorkRecord) IsOpen() bool {
	return r.ClockIn != nil && r.ClockOut == nil
}

// Clone returns a deep copy of r.
func (r WorkRecord) Clone() WorkRecord {
	out := r
	if r.ClockIn != nil {
		v := *r.ClockIn
		out.ClockIn = &v
	}
	if r.ClockOut != nil {
		v := *r.ClockOut
		out.ClockOut = &v
	}
	if r.TotalHours != nil {
		v := *r.TotalHours
		out.TotalHours = &v
	}
	return out
}

// CloneRecords deep-copies a record slice. A nil input yields an empty,
// non-nil slice so that it serializes as [].
func CloneRecords(in []WorkRecord) []WorkRecord {
	out := make([]WorkRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// Backup is the document written by export and read by import.
type Backup struct {
	Records    []WorkRecord `json:"records"`
	BackupDate string       `json:"backupDate"`
	Version    string       `json:"version"`
	AppName    string       `json:"appName"`
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string { return &s }

// FloatPtr returns a pointer to a copy of f.
func FloatPtr(f float64) *float64 { return &f }
