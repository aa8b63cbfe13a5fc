package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clock time within a single restaurant-local day, stored as
// minutes since midnight.  It is the unit used for reservation start/end
// times and operating hours.  The valid range is [0, 1440]; 1440 (24:00) is
// only meaningful as an exclusive end bound.  The wire and database form is
// "HH:MM" (MySQL TIME values with a seconds part are accepted on parse).
type TimeOfDay int

// MinutesPerDay is the exclusive upper bound for a TimeOfDay.
const MinutesPerDay = 24 * 60

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into a TimeOfDay.  Seconds
// are required to be zero because the engine reasons at minute granularity.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec != 0 {
			return 0, fmt.Errorf("invalid seconds in %q", s)
		}
	}
	t := TimeOfDay(h*60 + m)
	if t > MinutesPerDay {
		return 0, fmt.Errorf("time of day %q past 24:00", s)
	}
	return t, nil
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t <= MinutesPerDay }

// String renders the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Sub returns the duration between two times on the same day.
func (t TimeOfDay) Sub(other TimeOfDay) time.Duration {
	return time.Duration(int(t)-int(other)) * time.Minute
}

// At anchors the time of day onto a calendar date, producing an instant in
// the date's location.  Dates are restaurant-local throughout the engine.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// MarshalJSON encodes the "HH:MM" form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the "HH:MM" form.
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
