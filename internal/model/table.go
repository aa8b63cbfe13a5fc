package model

import "time"

// Table is a bookable table inside a restaurant.  Capacity caps the party
// size of reservations bound to the table; inactive tables accept no new
// bookings.  This struct corresponds to a row in the `tables` table.
type Table struct {
	ID           uint64    // tables.id
	RestaurantID uint64    // tables.restaurant_id
	Name         string    // tables.name (unique per restaurant)
	Capacity     int       // tables.capacity
	IsActive     bool      // tables.is_active
	CreatedAt    time.Time // tables.created_at
	UpdatedAt    time.Time // tables.updated_at
}
