package booking

import (
	"errors"
	"time"

	"mesaYaBooking/internal/model"
)

// Sentinel rejection reasons for the admission pipeline.  Each maps to a
// distinct machine-checkable error code at the HTTP layer; handlers compare
// with errors.Is.
var (
	// ErrInvalidTimeRange rejects windows where start is not strictly
	// before end, or either bound falls outside the day.
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	// ErrDurationOutOfPolicy rejects windows shorter or longer than the
	// restaurant's duration bounds.
	ErrDurationOutOfPolicy = errors.New("reservation duration out of policy bounds")
	// ErrGuestCountOutOfPolicy rejects party sizes outside the policy's
	// guest bounds.
	ErrGuestCountOutOfPolicy = errors.New("guest count out of policy bounds")
	// ErrLeadTimeOutOfPolicy rejects requests booked too late or too far in
	// advance, including any past-dated request.
	ErrLeadTimeOutOfPolicy = errors.New("booking lead time out of policy bounds")
	// ErrTableConflict rejects windows that overlap an active reservation
	// on the same table.
	ErrTableConflict = errors.New("table already reserved for this time")
	// ErrUserLimitExceeded rejects users already holding the maximum number
	// of active reservations at the restaurant.
	ErrUserLimitExceeded = errors.New("active reservation limit reached for user")
)

// Request is the admission-relevant slice of a booking request.  Date is a
// restaurant-local calendar day; TableID is nil for waitlist-style bookings,
// which skip the overlap check.  UserID is nil for guest bookings, which
// skip the per-user limit.
type Request struct {
	Date    time.Time
	Start   model.TimeOfDay
	End     model.TimeOfDay
	Guests  int
	TableID *uint64
	UserID  *uint64
}

// Interval returns the requested [Start, End) window.
func (r Request) Interval() Interval { return Interval{Start: r.Start, End: r.End} }

// Validate runs the admission checks in a fixed order and returns the first
// failing reason, or nil when the request is admissible.  Checks, in order:
// time-range sanity, duration bounds, guest bounds, lead time relative to
// now, table overlap against the supplied active reservations, and the
// per-user active-reservation limit.
//
// The function is pure: existing intervals and the user's active count are
// loaded by the caller, and now is injected so lead-time behaviour is
// deterministic under test.
func Validate(req Request, policy model.PolicyConfig, existing []Interval, activeUserCount int, now time.Time) error {
	if !req.Interval().Valid() {
		return ErrInvalidTimeRange
	}

	dur := req.End.Sub(req.Start)
	if dur < policy.MinReservationDuration || dur > policy.MaxReservationDuration {
		return ErrDurationOutOfPolicy
	}

	if req.Guests < policy.MinGuestsPerReservation || req.Guests > policy.MaxGuestsPerReservation {
		return ErrGuestCountOutOfPolicy
	}

	lead := req.Start.At(req.Date).Sub(now)
	if lead < policy.MinAdvanceBookingTime || lead > policy.MaxAdvanceBookingTime {
		return ErrLeadTimeOutOfPolicy
	}

	if req.TableID != nil {
		want := req.Interval()
		for _, iv := range existing {
			if Overlaps(want, iv) {
				return ErrTableConflict
			}
		}
	}

	if policy.ReservationsPerUserLimit > 0 && req.UserID != nil &&
		activeUserCount >= policy.ReservationsPerUserLimit {
		return ErrUserLimitExceeded
	}

	return nil
}
