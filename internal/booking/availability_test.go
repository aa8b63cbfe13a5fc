package booking

import (
	"testing"

	"mesaYaBooking/internal/model"
)

// checkPartition verifies the segment list partitions [open, close) exactly:
// contiguous, non-empty segments whose union is the whole window.
func checkPartition(t *testing.T, segs []model.AvailabilitySegment, open, close model.TimeOfDay) {
	t.Helper()
	cursor := open
	for i, s := range segs {
		if s.Start != cursor {
			t.Errorf("segment %d starts at %v, want %v", i, s.Start, cursor)
		}
		if s.End <= s.Start {
			t.Errorf("segment %d is empty or inverted: %v-%v", i, s.Start, s.End)
		}
		cursor = s.End
	}
	if cursor != close {
		t.Errorf("segments end at %v, want %v", cursor, close)
	}
}

func TestBuildDayMapEmptyDay(t *testing.T) {
	w := Window{tod(10, 0), tod(22, 0)}
	segs := BuildDayMap(w, nil)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if !segs[0].Free || segs[0].Start != tod(10, 0) || segs[0].End != tod(22, 0) {
		t.Errorf("unexpected segment %+v", segs[0])
	}
	checkPartition(t, segs, w.Open, w.Close)
}

func TestBuildDayMapClosedDay(t *testing.T) {
	if segs := BuildDayMap(Window{tod(22, 0), tod(10, 0)}, nil); segs != nil {
		t.Errorf("closed window produced segments: %v", segs)
	}
	if segs := BuildDayMap(Window{tod(10, 0), tod(10, 0)}, nil); segs != nil {
		t.Errorf("empty window produced segments: %v", segs)
	}
}

func TestBuildDayMapInterleaved(t *testing.T) {
	w := Window{tod(10, 0), tod(22, 0)}
	occupied := []Interval{
		{tod(18, 0), tod(20, 0)},
		{tod(12, 0), tod(13, 0)},
	}
	segs := BuildDayMap(w, occupied)
	want := []model.AvailabilitySegment{
		{Start: tod(10, 0), End: tod(12, 0), Free: true},
		{Start: tod(12, 0), End: tod(13, 0), Free: false},
		{Start: tod(13, 0), End: tod(18, 0), Free: true},
		{Start: tod(18, 0), End: tod(20, 0), Free: false},
		{Start: tod(20, 0), End: tod(22, 0), Free: true},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
	checkPartition(t, segs, w.Open, w.Close)
}

func TestBuildDayMapReservationAtOpen(t *testing.T) {
	w := Window{tod(10, 0), tod(22, 0)}
	segs := BuildDayMap(w, []Interval{{tod(10, 0), tod(11, 0)}})
	if segs[0].Free {
		t.Error("first segment should be occupied when a booking starts at open")
	}
	checkPartition(t, segs, w.Open, w.Close)
}

func TestBuildDayMapReservationAtClose(t *testing.T) {
	w := Window{tod(10, 0), tod(22, 0)}
	segs := BuildDayMap(w, []Interval{{tod(21, 0), tod(22, 0)}})
	last := segs[len(segs)-1]
	if last.Free || last.End != tod(22, 0) {
		t.Errorf("last segment = %+v, want occupied ending at close", last)
	}
	checkPartition(t, segs, w.Open, w.Close)
}

func TestBuildDayMapFullWindowOccupied(t *testing.T) {
	w := Window{tod(10, 0), tod(22, 0)}
	segs := BuildDayMap(w, []Interval{{tod(10, 0), tod(22, 0)}})
	if len(segs) != 1 || segs[0].Free {
		t.Fatalf("got %v, want single occupied segment", segs)
	}
	checkPartition(t, segs, w.Open, w.Close)
}

func TestBuildDayMapClampsOutsideWindow(t *testing.T) {
	w := Window{tod(10, 0), tod(22, 0)}
	occupied := []Interval{
		{tod(8, 0), tod(11, 0)},  // starts before open
		{tod(21, 0), tod(23, 0)}, // ends after close
		{tod(6, 0), tod(7, 0)},   // entirely outside
	}
	segs := BuildDayMap(w, occupied)
	want := []model.AvailabilitySegment{
		{Start: tod(10, 0), End: tod(11, 0), Free: false},
		{Start: tod(11, 0), End: tod(21, 0), Free: true},
		{Start: tod(21, 0), End: tod(22, 0), Free: false},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
	checkPartition(t, segs, w.Open, w.Close)
}

func TestBuildDayMapAdjacentBookings(t *testing.T) {
	// Back-to-back bookings coalesce into one occupied block, no zero-width
	// free segment between them.
	w := Window{tod(10, 0), tod(22, 0)}
	segs := BuildDayMap(w, []Interval{
		{tod(18, 0), tod(19, 0)},
		{tod(19, 0), tod(20, 0)},
	})
	occupied := 0
	for _, s := range segs {
		if !s.Free {
			occupied++
			if s.Start != tod(18, 0) || s.End != tod(20, 0) {
				t.Errorf("occupied segment = %+v, want 18:00-20:00", s)
			}
		}
	}
	if occupied != 1 {
		t.Errorf("got %d occupied segments, want 1", occupied)
	}
	checkPartition(t, segs, w.Open, w.Close)
}
