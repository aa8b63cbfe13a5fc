// Package booking holds the pure decision core of the reservation engine:
// interval math, the availability-map projection, the admission validator
// and the status lifecycle.  Nothing in this package performs I/O; all data
// is supplied by the caller, which keeps every rule unit-testable.
package booking

import (
	"sort"

	"mesaYaBooking/internal/model"
)

// Interval is a half-open [Start, End) time window within one day.
type Interval struct {
	Start model.TimeOfDay
	End   model.TimeOfDay
}

// Valid reports whether the interval is well formed (Start strictly before
// End, both within the day).
func (iv Interval) Valid() bool {
	return iv.Start.Valid() && iv.End.Valid() && iv.Start < iv.End
}

// Overlaps reports whether two half-open intervals share any time.  Touching
// endpoints, one window ending exactly when the other starts, do not count
// as an overlap, so back-to-back bookings on the same table are fine.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// mergeIntervals returns the union of the input as a sorted list of
// non-overlapping intervals.  Inputs that overlap or touch are coalesced.
// The input slice is not modified.
func mergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	out := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Start <= cur.End {
			if iv.End > cur.End {
				cur.End = iv.End
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	return append(out, cur)
}
