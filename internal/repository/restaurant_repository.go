package repository

import (
	"context"
	"database/sql"

	"mesaYaBooking/internal/model"
)

// RestaurantRepo provides read access to restaurants.  The engine needs
// ownership (for staff authorization) and the daily operating window (for
// availability maps); everything else about a restaurant is owned by other
// services.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// GetByID returns one restaurant or sql.ErrNoRows.  TIME columns are
// parsed into minute-granularity TimeOfDay values.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT id, owner_id, name, opens_at, closes_at, is_active, created_at, updated_at
			   FROM restaurants WHERE id = ?`
	var (
		rest      model.Restaurant
		opensStr  string
		closesStr string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rest.ID, &rest.OwnerID, &rest.Name, &opensStr, &closesStr,
		&rest.IsActive, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rest.OpensAt, err = model.ParseTimeOfDay(opensStr); err != nil {
		return nil, err
	}
	if rest.ClosesAt, err = model.ParseTimeOfDay(closesStr); err != nil {
		return nil, err
	}
	return &rest, nil
}
