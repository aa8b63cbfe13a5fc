package booking

import (
	"testing"

	"mesaYaBooking/internal/model"
)

func tod(h, m int) model.TimeOfDay { return model.TimeOfDay(h*60 + m) }

func TestIntervalValid(t *testing.T) {
	cases := []struct {
		name string
		iv   Interval
		want bool
	}{
		{"normal", Interval{tod(18, 0), tod(20, 0)}, true},
		{"one minute", Interval{tod(18, 0), tod(18, 1)}, true},
		{"empty", Interval{tod(18, 0), tod(18, 0)}, false},
		{"inverted", Interval{tod(20, 0), tod(18, 0)}, false},
		{"negative start", Interval{model.TimeOfDay(-1), tod(1, 0)}, false},
		{"end past midnight", Interval{tod(23, 0), model.TimeOfDay(model.MinutesPerDay + 1)}, false},
		{"full day", Interval{tod(0, 0), model.TimeOfDay(model.MinutesPerDay)}, true},
	}
	for _, tc := range cases {
		if got := tc.iv.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", Interval{tod(10, 0), tod(11, 0)}, Interval{tod(12, 0), tod(13, 0)}, false},
		{"partial", Interval{tod(18, 30), tod(19, 30)}, Interval{tod(19, 0), tod(20, 0)}, true},
		{"contained", Interval{tod(18, 0), tod(22, 0)}, Interval{tod(19, 0), tod(20, 0)}, true},
		{"identical", Interval{tod(18, 0), tod(20, 0)}, Interval{tod(18, 0), tod(20, 0)}, true},
		{"touching end-start", Interval{tod(18, 0), tod(20, 0)}, Interval{tod(20, 0), tod(22, 0)}, false},
		{"touching start-end", Interval{tod(20, 0), tod(22, 0)}, Interval{tod(18, 0), tod(20, 0)}, false},
		{"one minute shared", Interval{tod(18, 0), tod(20, 1)}, Interval{tod(20, 0), tod(22, 0)}, true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		// Overlap is symmetric.
		if got := Overlaps(tc.b, tc.a); got != tc.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMergeIntervals(t *testing.T) {
	in := []Interval{
		{tod(20, 0), tod(21, 0)},
		{tod(12, 0), tod(13, 0)},
		{tod(12, 30), tod(14, 0)}, // overlaps the previous
		{tod(14, 0), tod(15, 0)},  // touches, must coalesce
	}
	got := mergeIntervals(in)
	want := []Interval{
		{tod(12, 0), tod(15, 0)},
		{tod(20, 0), tod(21, 0)},
	}
	if len(got) != len(want) {
		t.Fatalf("merged length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("merged[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// Input order must be preserved for the caller.
	if in[0].Start != tod(20, 0) {
		t.Error("mergeIntervals modified its input")
	}
}

func TestMergeIntervalsEmpty(t *testing.T) {
	if got := mergeIntervals(nil); got != nil {
		t.Errorf("mergeIntervals(nil) = %v, want nil", got)
	}
}
