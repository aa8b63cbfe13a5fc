package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// PENDING and CONFIRMED are the only states that count against table
// conflicts and per-user limits; the remaining three are terminal.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusNoShow    ReservationStatus = "NO_SHOW"
)

// IsActive reports whether the status is non-terminal, i.e. the reservation
// still occupies its slot for overlap and limit accounting.
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether the status admits no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// Reservation records a booking of a restaurant table (or a waitlist-style
// booking without one) for a time window on a calendar day.  All dates and
// times are restaurant-local.  This struct corresponds to a row in the
// `reservations` table.
//
// Fields:
//  ID                – primary key identifier.
//  RestaurantID      – restaurant the booking belongs to.
//  TableID           – table the booking occupies; nil while unassigned.
//  UserID            – registered customer, when booked from an account.
//  CustomerName      – guest contact name (guest bookings only).
//  CustomerEmail     – guest contact email (nullable).
//  CustomerPhone     – guest contact phone (nullable).
//  ReservationDate   – calendar date of the visit (restaurant-local).
//  StartTime         – start of the window, inclusive.
//  EndTime           – end of the window, exclusive; always after StartTime.
//  NumberOfGuests    – party size, positive.
//  Status            – lifecycle state, mutated only through transitions.
//  NeedsConfirmation – copied from restaurant policy at creation, frozen.
//  ManageTokenHash   – SHA-256 digest of the guest manage token (nullable).
//  Notes             – free-text request from the customer (nullable).
//  CreatedAt         – creation timestamp, immutable.
//  UpdatedAt         – last modification timestamp.
//
// Exactly one identity path is populated: UserID, or guest contact details.
// Cancellation and no-show are status changes, never row deletions.
type Reservation struct {
	ID                uint64            // reservations.id
	RestaurantID      uint64            // reservations.restaurant_id
	TableID           *uint64           // reservations.table_id (nullable)
	UserID            *uint64           // reservations.user_id (nullable)
	CustomerName      *string           // reservations.customer_name (nullable)
	CustomerEmail     *string           // reservations.customer_email (nullable)
	CustomerPhone     *string           // reservations.customer_phone (nullable)
	ReservationDate   time.Time         // reservations.reservation_date (DATE)
	StartTime         TimeOfDay         // reservations.start_time (TIME)
	EndTime           TimeOfDay         // reservations.end_time (TIME)
	NumberOfGuests    int               // reservations.number_of_guests
	Status            ReservationStatus // reservations.status
	NeedsConfirmation bool              // reservations.needs_confirmation
	ManageTokenHash   *string           // reservations.manage_token_hash (nullable)
	Notes             *string           // reservations.notes (nullable)
	CreatedAt         time.Time         // reservations.created_at
	UpdatedAt         time.Time         // reservations.updated_at
}

// IsGuest reports whether the reservation was made without an account.
func (r *Reservation) IsGuest() bool { return r.UserID == nil }

// StartsAt returns the restaurant-local instant the visit begins.
func (r *Reservation) StartsAt() time.Time { return r.StartTime.At(r.ReservationDate) }

// EndsAt returns the restaurant-local instant the visit ends.
func (r *Reservation) EndsAt() time.Time { return r.EndTime.At(r.ReservationDate) }
