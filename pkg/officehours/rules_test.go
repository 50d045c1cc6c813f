package officehours

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ksquareincmx/conference-server-sub000/pkg/timerange"
)

// April 15 2030 is a Monday; April 13 2030 is a Saturday.
func localRange(t *testing.T, loc *time.Location, day int, startClock, endClock string) timerange.Range {
	t.Helper()
	date := fmt.Sprintf("2030-04-%02d", day)
	rg, err := timerange.Normalize(
		date+"T"+startClock+":00",
		date+"T"+endClock+":00",
		loc,
	)
	if err != nil {
		t.Fatalf("failed to build range: %v", err)
	}
	return rg
}

func testRules(t *testing.T) Rules {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return NewRules(loc, "08:00", "18:00")
}

func TestWithinOfficeHours(t *testing.T) {
	rules := testRules(t)

	tests := []struct {
		name       string
		startClock string
		endClock   string
		want       bool
	}{
		{name: "exactly full window is valid", startClock: "08:00", endClock: "18:00", want: true},
		{name: "inside the window", startClock: "10:15", endClock: "10:30", want: true},
		{name: "starts at lower bound", startClock: "08:00", endClock: "09:00", want: true},
		{name: "ends at upper bound", startClock: "17:00", endClock: "18:00", want: true},
		{name: "one minute before opening", startClock: "07:59", endClock: "09:00", want: false},
		{name: "one minute past closing", startClock: "17:00", endClock: "18:01", want: false},
		{name: "entirely before hours", startClock: "06:00", endClock: "07:00", want: false},
		{name: "entirely after hours", startClock: "19:00", endClock: "20:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := localRange(t, rules.Location, 15, tt.startClock, tt.endClock)
			if got := rules.WithinOfficeHours(rg); got != tt.want {
				t.Errorf("WithinOfficeHours(%s-%s) = %v, want %v", tt.startClock, tt.endClock, got, tt.want)
			}
		})
	}
}

func TestWithinOfficeHours_CrossDay(t *testing.T) {
	rules := testRules(t)

	rg, err := timerange.Normalize("2030-04-15T17:00:00", "2030-04-16T09:00:00", rules.Location)
	if err != nil {
		t.Fatalf("failed to build range: %v", err)
	}
	if rules.WithinOfficeHours(rg) {
		t.Error("a range crossing midnight must not pass office hours")
	}
}

func TestIsWeekday(t *testing.T) {
	rules := testRules(t)

	tests := []struct {
		name string
		day  int
		want bool
	}{
		{name: "Monday", day: 15, want: true},
		{name: "Friday", day: 19, want: true},
		{name: "Saturday", day: 13, want: false},
		{name: "Sunday", day: 14, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := localRange(t, rules.Location, tt.day, "10:00", "11:00")
			if got := rules.IsWeekday(rg); got != tt.want {
				t.Errorf("IsWeekday(day %d) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestNotPast(t *testing.T) {
	rules := testRules(t)
	rg := localRange(t, rules.Location, 15, "10:00", "11:00")

	if !rules.NotPast(rg, rg.Start.Add(-time.Hour)) {
		t.Error("future range must pass NotPast")
	}
	if !rules.NotPast(rg, rg.Start) {
		t.Error("a range starting exactly now must pass NotPast")
	}
	if rules.NotPast(rg, rg.Start.Add(time.Minute)) {
		t.Error("range already started must fail NotPast")
	}
}

func TestValidate(t *testing.T) {
	rules := testRules(t)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		day     int
		start   string
		end     string
		now     time.Time
		wantErr error
	}{
		{name: "valid weekday meeting", day: 15, start: "10:00", end: "11:00", now: now},
		{name: "outside office hours", day: 15, start: "06:00", end: "09:00", now: now, wantErr: ErrOutsideOfficeHours},
		{name: "weekend", day: 13, start: "10:00", end: "11:00", now: now, wantErr: ErrWeekendNotAllowed},
		{
			name: "past meeting", day: 15, start: "10:00", end: "11:00",
			now:     time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
			wantErr: ErrPastDateNotAllowed,
		},
		{
			// Office hours take precedence when several rules are violated.
			name: "past and after hours reports office hours", day: 15, start: "06:00", end: "07:00",
			now:     time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
			wantErr: ErrOutsideOfficeHours,
		},
		{
			name: "past weekend reports weekend before past", day: 13, start: "10:00", end: "11:00",
			now:     time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
			wantErr: ErrWeekendNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := localRange(t, rules.Location, tt.day, tt.start, tt.end)
			err := rules.Validate(rg, tt.now)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
