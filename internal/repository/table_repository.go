package repository

import (
	"context"
	"database/sql"

	"mesaYaBooking/internal/model"
)

// TableRepo provides read access to restaurant tables.  Table management
// (creation, layout, activation) belongs to the restaurant-admin service;
// the engine only needs lookups for capacity and ownership checks.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, restaurant_id, name, capacity, is_active, created_at, updated_at`

func scanTable(rs rowScanner) (*model.Table, error) {
	var t model.Table
	if err := rs.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Capacity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID returns one table or sql.ErrNoRows.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableCols + ` FROM tables WHERE id = ?`
	return scanTable(r.db.QueryRowContext(ctx, q, id))
}

// ListByRestaurant returns the restaurant's tables ordered by name.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT ` + tableCols + ` FROM tables WHERE restaurant_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
