// Package officehours holds the scheduling-window rules for bookings: which
// wall-clock window and weekdays a meeting may occupy, and the partition of a
// day into free and occupied slots.
package officehours

import (
	"errors"
	"fmt"
	"time"

	"github.com/ksquareincmx/conference-server-sub000/pkg/timerange"
)

var (
	ErrOutsideOfficeHours = errors.New("meetings must be booked within office hours")
	ErrWeekendNotAllowed  = errors.New("meetings can only be booked on weekdays")
	ErrPastDateNotAllowed = errors.New("meetings cannot be booked in the past")
)

// Rules evaluates a candidate range against the business scheduling window.
// All clock comparisons happen in Location; DayStart and DayEnd are "HH:MM"
// strings, both inclusive at the boundary (a meeting spanning exactly
// DayStart to DayEnd is valid).
type Rules struct {
	Location *time.Location
	DayStart string
	DayEnd   string
}

// NewRules builds a rule set for the given business timezone and office-hours
// window.
func NewRules(loc *time.Location, dayStart, dayEnd string) Rules {
	return Rules{Location: loc, DayStart: dayStart, DayEnd: dayEnd}
}

// IsWeekday reports whether the range starts on a Monday through Friday in
// the business timezone. Only the start day matters: WithinOfficeHours
// already confines a valid range to a single local day.
func (r Rules) IsWeekday(rg timerange.Range) bool {
	day := rg.Start.In(r.Location).Weekday()
	return day != time.Saturday && day != time.Sunday
}

// WithinOfficeHours reports whether the range falls inside [DayStart, DayEnd]
// of a single local calendar day. "HH:MM" strings compare correctly as plain
// strings.
func (r Rules) WithinOfficeHours(rg timerange.Range) bool {
	localStart := rg.Start.In(r.Location)
	localEnd := rg.End.In(r.Location)

	sameDay := localStart.Year() == localEnd.Year() &&
		localStart.YearDay() == localEnd.YearDay()
	if !sameDay {
		return false
	}

	startClock := localStart.Format("15:04")
	endClock := localEnd.Format("15:04")
	return startClock >= r.DayStart && endClock <= r.DayEnd
}

// NotPast reports whether the range starts at or after now.
func (r Rules) NotPast(rg timerange.Range, now time.Time) bool {
	return !rg.Start.Before(now)
}

// Validate runs all rules and returns the first violation. Office-hours and
// weekday checks run before the past-date check, so a meeting that is both
// after hours and in the past reports the office-hours violation.
func (r Rules) Validate(rg timerange.Range, now time.Time) error {
	if !r.WithinOfficeHours(rg) {
		return fmt.Errorf("%w (%s to %s)", ErrOutsideOfficeHours, r.DayStart, r.DayEnd)
	}
	if !r.IsWeekday(rg) {
		return ErrWeekendNotAllowed
	}
	if !r.NotPast(rg, now) {
		return ErrPastDateNotAllowed
	}
	return nil
}
