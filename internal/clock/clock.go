// Package clock abstracts time so day boundaries stay testable.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for streaks and board periods.
const DateLayout = "2006-01-02"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in local time.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

// Now implements Clock.
func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}

// Day formats t as a calendar day.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// Yesterday returns the calendar day before t.
func Yesterday(t time.Time) string {
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// Week returns the ISO week key for t, e.g. 2024-W07.
func Week(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
