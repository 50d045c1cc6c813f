package officehours

import "sort"

// Interval is a clock-time slice of a single day, half-open, rendered as
// "HH:MM" strings. It is an ephemeral projection computed per query and never
// persisted.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots computes the complement of the occupied intervals inside the
// office-hours window. The occupied set is sorted by start (stable, so input
// order is preserved for equal starts), bracketed with sentinels that mark
// everything before DayStart and after DayEnd as always occupied, and scanned
// pairwise: each gap between consecutive intervals becomes a free slot.
//
// A day with no bookings yields the single slot spanning the whole window.
// The result is eagerly materialized; the occupied set for one room-day is
// small and the HTTP layer re-iterates it for serialization.
func (r Rules) FreeSlots(occupied []Interval) []Interval {
	sorted := make([]Interval, len(occupied))
	copy(sorted, occupied)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	seq := make([]Interval, 0, len(sorted)+2)
	seq = append(seq, Interval{Start: "00:00", End: r.DayStart})
	seq = append(seq, sorted...)
	seq = append(seq, Interval{Start: r.DayEnd, End: "23:59"})

	free := make([]Interval, 0, len(seq))
	for i := 0; i+1 < len(seq); i++ {
		cur, next := seq[i], seq[i+1]
		if cur.End != next.Start {
			free = append(free, Interval{Start: cur.End, End: next.Start})
		}
	}

	return free
}
