// Package timerange provides the half-open [start, end) interval type that
// every booking operation is normalized into. Ranges are stored and compared
// in UTC; wall-clock inputs are interpreted in the business timezone at the
// boundary and never leak local times into the rest of the system.
package timerange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRange marks a range that could not be parsed or whose start is
// not strictly before its end. Zero-length ranges are invalid.
var ErrInvalidRange = errors.New("invalid date range")

// Range is an immutable half-open interval [Start, End) in UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// layouts accepted for endpoint parsing, tried in order. Offset-less layouts
// are interpreted in the business timezone passed to Normalize.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalize parses both endpoints, anchors offset-less inputs in loc and
// converts everything to UTC. A bare date is taken at the day boundary of
// loc. Returns ErrInvalidRange if either endpoint fails to parse or if
// start >= end.
func Normalize(rawStart, rawEnd string, loc *time.Location) (Range, error) {
	start, err := parseEndpoint(rawStart, loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: could not parse start date %q", ErrInvalidRange, rawStart)
	}

	end, err := parseEndpoint(rawEnd, loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: could not parse end date %q", ErrInvalidRange, rawEnd)
	}

	if !start.Before(end) {
		return Range{}, fmt.Errorf("%w: start date must be before end date", ErrInvalidRange)
	}

	return Range{Start: start, End: end}, nil
}

func parseEndpoint(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	// RFC3339 inputs carry their own offset.
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", raw)
}

// Overlaps reports whether r and o share at least one instant. The test is
// strictly half-open: a range ending exactly when another begins does not
// overlap, so back-to-back bookings are legal.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether t falls inside the half-open interval.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns the length of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// In projects both endpoints into loc. UTC instants are unchanged.
func (r Range) In(loc *time.Location) Range {
	return Range{Start: r.Start.In(loc), End: r.End.In(loc)}
}

// ClockTime renders the instant as a local "HH:MM" string in loc. Used when
// projecting bookings onto a day's slot grid.
func ClockTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}
