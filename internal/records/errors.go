package records

import (
	"errors"
	"fmt"
)

var (
	// ErrNotClockedIn is returned by ClockOut when today has no clock-in.
	ErrNotClockedIn = errors.New("not clocked in today")
	// ErrAlreadyClockedOut is returned by ClockOut when today is closed.
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	// ErrAnnualLeaveDay is returned by ClockIn on a day of annual leave.
	ErrAnnualLeaveDay = errors.New("today is booked as annual leave")
	// ErrNotFound is returned when no record has the given id.
	ErrNotFound = errors.New("record not found")
	// ErrStorage wraps failures to persist the collection.
	ErrStorage = errors.New("storage error")
)

// ValidationError reports user input rejected before it reaches the
// hours calculator.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
