// Package timex provides calendar-day parsing and period alignment helpers.
//
// All dates in persisted artifacts are calendar days in the fixed
// "YYYY-MM-DD" form; times of day never appear on disk.
package timex

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the canonical on-disk day format.
const DayLayout = "2006-01-02"

// hoursPerDay is used when truncating durations to whole days.
const hoursPerDay = 24

// ErrInvalidDate indicates a date string that does not parse as YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// ParseDay parses a YYYY-MM-DD day string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return t.UTC(), nil
}

// FormatDay renders a time as its YYYY-MM-DD day string.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// DaysBetween returns the number of whole days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / hoursPerDay)
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	sinceMonday := (int(t.Weekday()) + 6) % 7

	return t.AddDate(0, 0, -sinceMonday)
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
