package model

import "time"

// PolicyConfig is the per-restaurant booking policy.  It is owned by the
// restaurant settings service; this engine only reads it.  Durations are
// stored in the database as whole minutes and expanded by the repository.
//
// Fields:
//  RestaurantID                 – restaurant the policy belongs to.
//  ReservationsNeedConfirmation – when true, new reservations start PENDING
//                                 and wait for staff approval; otherwise
//                                 they are CONFIRMED immediately.
//  MinReservationDuration       – shortest admissible visit window.
//  MaxReservationDuration       – longest admissible visit window.
//  MinAdvanceBookingTime        – minimum lead time between "now" and the
//                                 start of the visit.
//  MaxAdvanceBookingTime        – maximum lead time; bookings further out
//                                 are rejected.
//  MinGuestsPerReservation      – smallest admissible party size.
//  MaxGuestsPerReservation      – largest admissible party size.
//  ReservationsPerUserLimit     – cap on concurrently active reservations a
//                                 registered user may hold at the
//                                 restaurant; 0 means unlimited.
type PolicyConfig struct {
	RestaurantID                 uint64        // reservation_policies.restaurant_id
	ReservationsNeedConfirmation bool          // reservation_policies.needs_confirmation
	MinReservationDuration       time.Duration // reservation_policies.min_duration_min
	MaxReservationDuration       time.Duration // reservation_policies.max_duration_min
	MinAdvanceBookingTime        time.Duration // reservation_policies.min_advance_min
	MaxAdvanceBookingTime        time.Duration // reservation_policies.max_advance_min
	MinGuestsPerReservation      int           // reservation_policies.min_guests
	MaxGuestsPerReservation      int           // reservation_policies.max_guests
	ReservationsPerUserLimit     int           // reservation_policies.per_user_limit
}
