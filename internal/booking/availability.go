package booking

import "mesaYaBooking/internal/model"

// Window is a restaurant's operating window for one day, half-open
// [Open, Close).  Open >= Close means the restaurant is closed that day.
type Window struct {
	Open  model.TimeOfDay
	Close model.TimeOfDay
}

// Closed reports whether the window is empty.
func (w Window) Closed() bool { return w.Open >= w.Close }

// BuildDayMap projects the active reservations of one table on one day onto
// the operating window, producing the ordered free/occupied segments the UI
// renders.  The result partitions [Open, Close) exactly: segments are
// contiguous, non-overlapping, and their union equals the window.
//
// Occupied inputs are unioned first, so overlapping intervals (which the
// storage invariant should prevent) are tolerated rather than breaking the
// partition.  Intervals outside the window are clamped away.  A closed
// window yields nil; zero reservations yield a single free segment.
func BuildDayMap(w Window, occupied []Interval) []model.AvailabilitySegment {
	if w.Closed() {
		return nil
	}
	merged := mergeIntervals(occupied)
	segs := make([]model.AvailabilitySegment, 0, 2*len(merged)+1)
	cursor := w.Open
	for _, iv := range merged {
		if iv.End <= w.Open || iv.Start >= w.Close {
			continue // entirely outside the operating window
		}
		start, end := iv.Start, iv.End
		if start < w.Open {
			start = w.Open
		}
		if end > w.Close {
			end = w.Close
		}
		if start > cursor {
			segs = append(segs, model.AvailabilitySegment{Start: cursor, End: start, Free: true})
		}
		segs = append(segs, model.AvailabilitySegment{Start: start, End: end, Free: false})
		cursor = end
	}
	if cursor < w.Close {
		segs = append(segs, model.AvailabilitySegment{Start: cursor, End: w.Close, Free: true})
	}
	return segs
}
