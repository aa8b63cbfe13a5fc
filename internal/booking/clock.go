package booking

import "time"

// Clock supplies "now" to the engine.  It is injected rather than read from
// the ambient environment so lead-time validation and the elapsed sweep are
// deterministic under test.  The time returned must be restaurant-local;
// the platform runs in the restaurants' locale.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }
