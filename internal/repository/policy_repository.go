package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mesaYaBooking/internal/model"
)

// PolicyRepo reads per-restaurant booking policies.  Policies are written
// by the settings service, never by this engine, so they are safe to cache
// with a short TTL: a settings change becomes visible within cacheTTL
// without any invalidation protocol.  When the Redis client is nil (cache
// unavailable at startup) every read falls through to MySQL.
type PolicyRepo struct {
	db  *sql.DB
	rdb *redis.Client
	ttl time.Duration
}

// NewPolicyRepo constructs a PolicyRepo.  rdb may be nil to disable caching.
func NewPolicyRepo(db *sql.DB, rdb *redis.Client, ttl time.Duration) *PolicyRepo {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PolicyRepo{db: db, rdb: rdb, ttl: ttl}
}

// policyRow is the cache/DB representation: durations as whole minutes.
type policyRow struct {
	RestaurantID      uint64 `json:"restaurant_id"`
	NeedsConfirmation bool   `json:"needs_confirmation"`
	MinDurationMin    int    `json:"min_duration_min"`
	MaxDurationMin    int    `json:"max_duration_min"`
	MinAdvanceMin     int    `json:"min_advance_min"`
	MaxAdvanceMin     int    `json:"max_advance_min"`
	MinGuests         int    `json:"min_guests"`
	MaxGuests         int    `json:"max_guests"`
	PerUserLimit      int    `json:"per_user_limit"`
}

func (p policyRow) toConfig() *model.PolicyConfig {
	return &model.PolicyConfig{
		RestaurantID:                 p.RestaurantID,
		ReservationsNeedConfirmation: p.NeedsConfirmation,
		MinReservationDuration:       time.Duration(p.MinDurationMin) * time.Minute,
		MaxReservationDuration:       time.Duration(p.MaxDurationMin) * time.Minute,
		MinAdvanceBookingTime:        time.Duration(p.MinAdvanceMin) * time.Minute,
		MaxAdvanceBookingTime:        time.Duration(p.MaxAdvanceMin) * time.Minute,
		MinGuestsPerReservation:      p.MinGuests,
		MaxGuestsPerReservation:      p.MaxGuests,
		ReservationsPerUserLimit:     p.PerUserLimit,
	}
}

func policyCacheKey(restaurantID uint64) string {
	return fmt.Sprintf("policy:%d", restaurantID)
}

// GetByRestaurant returns the restaurant's booking policy, from cache when
// fresh, otherwise from MySQL (repopulating the cache).  Cache errors are
// treated as misses; the database remains the source of truth.
func (r *PolicyRepo) GetByRestaurant(ctx context.Context, restaurantID uint64) (*model.PolicyConfig, error) {
	if r.rdb != nil {
		if raw, err := r.rdb.Get(ctx, policyCacheKey(restaurantID)).Bytes(); err == nil {
			var row policyRow
			if json.Unmarshal(raw, &row) == nil && row.RestaurantID == restaurantID {
				return row.toConfig(), nil
			}
		}
	}

	const q = `SELECT restaurant_id, needs_confirmation, min_duration_min, max_duration_min,
					  min_advance_min, max_advance_min, min_guests, max_guests, per_user_limit
			   FROM reservation_policies WHERE restaurant_id = ?`
	var row policyRow
	err := r.db.QueryRowContext(ctx, q, restaurantID).Scan(
		&row.RestaurantID, &row.NeedsConfirmation, &row.MinDurationMin, &row.MaxDurationMin,
		&row.MinAdvanceMin, &row.MaxAdvanceMin, &row.MinGuests, &row.MaxGuests, &row.PerUserLimit,
	)
	if err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if raw, err := json.Marshal(row); err == nil {
			_ = r.rdb.Set(ctx, policyCacheKey(restaurantID), raw, r.ttl).Err()
		}
	}
	return row.toConfig(), nil
}
