// Package queue defines message payloads exchanged over the message broker
// and the background consumer for reservation events.
package queue

// StatusQueueName is the durable queue carrying reservation status changes.
const StatusQueueName = "reservation.status"

// ReservationStatusChangedEvent is published whenever a reservation is
// created or moves between lifecycle states.  It carries enough context for
// downstream consumers (notification delivery, the realtime service,
// analytics) to act without querying the primary database.  OldStatus is
// empty for creation events.
type ReservationStatusChangedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	RestaurantID  uint64  `json:"restaurant_id"`
	TableID       *uint64 `json:"table_id,omitempty"`
	UserID        *uint64 `json:"user_id,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Guests        int     `json:"guests"`
	OldStatus     string  `json:"old_status,omitempty"`
	NewStatus     string  `json:"new_status"`
	ChangedAt     string  `json:"changed_at"`
}
