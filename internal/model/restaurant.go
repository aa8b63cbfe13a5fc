package model

import "time"

// Restaurant is a venue owned by a platform user.  Operating hours bound the
// availability map for every table in the venue.  OpensAt equal to ClosesAt
// means the restaurant is closed (no operating window).
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – platform user who owns the restaurant.
//  Name      – display name.
//  OpensAt   – start of the daily operating window, inclusive.
//  ClosesAt  – end of the daily operating window, exclusive.
//  IsActive  – whether the restaurant accepts bookings at all.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Restaurant struct {
	ID        uint64    // restaurants.id
	OwnerID   uint64    // restaurants.owner_id
	Name      string    // restaurants.name
	OpensAt   TimeOfDay // restaurants.opens_at (TIME)
	ClosesAt  TimeOfDay // restaurants.closes_at (TIME)
	IsActive  bool      // restaurants.is_active
	CreatedAt time.Time // restaurants.created_at
	UpdatedAt time.Time // restaurants.updated_at
}

// IsClosed reports whether the restaurant has no operating window.
func (r *Restaurant) IsClosed() bool { return r.OpensAt >= r.ClosesAt }
