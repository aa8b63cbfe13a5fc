package model

// AvailabilitySegment is one contiguous slice of a table's operating day,
// either free or occupied.  Segments are derived from active reservations
// and never persisted.  The ordered segments for a table/day partition the
// operating window exactly: no gaps, no overlaps.
type AvailabilitySegment struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Free  bool      `json:"free"`
}
