package officehours

import (
	"reflect"
	"testing"
	"time"
)

func slotRules() Rules {
	return NewRules(time.UTC, "08:00", "18:00")
}

func TestFreeSlots(t *testing.T) {
	tests := []struct {
		name     string
		occupied []Interval
		want     []Interval
	}{
		{
			name:     "empty day is one full-window slot",
			occupied: nil,
			want:     []Interval{{Start: "08:00", End: "18:00"}},
		},
		{
			name: "two separated bookings",
			occupied: []Interval{
				{Start: "09:00", End: "10:00"},
				{Start: "14:00", End: "15:00"},
			},
			want: []Interval{
				{Start: "08:00", End: "09:00"},
				{Start: "10:00", End: "14:00"},
				{Start: "15:00", End: "18:00"},
			},
		},
		{
			name: "unsorted input is sorted by start",
			occupied: []Interval{
				{Start: "14:00", End: "15:00"},
				{Start: "09:00", End: "10:00"},
			},
			want: []Interval{
				{Start: "08:00", End: "09:00"},
				{Start: "10:00", End: "14:00"},
				{Start: "15:00", End: "18:00"},
			},
		},
		{
			name: "back-to-back bookings leave no gap between them",
			occupied: []Interval{
				{Start: "10:15", End: "10:30"},
				{Start: "10:30", End: "10:45"},
			},
			want: []Interval{
				{Start: "08:00", End: "10:15"},
				{Start: "10:45", End: "18:00"},
			},
		},
		{
			name: "booking flush against both window bounds",
			occupied: []Interval{
				{Start: "08:00", End: "09:00"},
				{Start: "17:00", End: "18:00"},
			},
			want: []Interval{
				{Start: "09:00", End: "17:00"},
			},
		},
		{
			name: "fully booked day",
			occupied: []Interval{
				{Start: "08:00", End: "18:00"},
			},
			want: []Interval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slotRules().FreeSlots(tt.occupied)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FreeSlots = %v, want %v", got, tt.want)
			}
		})
	}
}

// The union of free slots and occupied intervals must cover the office-hours
// window exactly, with no gaps and no double counting.
func TestFreeSlots_PartitionCompleteness(t *testing.T) {
	occupied := []Interval{
		{Start: "08:30", End: "09:15"},
		{Start: "09:15", End: "10:00"},
		{Start: "12:00", End: "13:30"},
		{Start: "16:45", End: "18:00"},
	}

	free := slotRules().FreeSlots(occupied)

	all := make([]Interval, 0, len(occupied)+len(free))
	all = append(all, occupied...)
	all = append(all, free...)

	covered := map[string]string{}
	for _, iv := range all {
		if prev, dup := covered[iv.Start]; dup {
			t.Fatalf("interval starting %s counted twice (ends %s and %s)", iv.Start, prev, iv.End)
		}
		covered[iv.Start] = iv.End
	}

	// Walk the chain from the window start; it must end exactly at 18:00.
	cursor := "08:00"
	for cursor != "18:00" {
		next, ok := covered[cursor]
		if !ok {
			t.Fatalf("gap in partition at %s", cursor)
		}
		if next <= cursor {
			t.Fatalf("non-advancing interval at %s", cursor)
		}
		cursor = next
	}
}
