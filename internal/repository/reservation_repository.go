package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"mesaYaBooking/internal/booking"
	"mesaYaBooking/internal/model"
)

// ReservationRepo provides persistence for reservations.  All timestamp
// columns hold restaurant-local values; reservation_date is a DATE and the
// window bounds are TIME columns at minute granularity.
//
// The repo owns the atomicity contract for admission: Insert and
// AssignTable re-read the target table's active windows under row locks
// inside their own transaction before writing, so a prior advisory
// availability check can never be the only guard against double booking.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// reservationCols is the column list every reservation query selects, in
// the order scanReservation expects.
const reservationCols = `id, restaurant_id, table_id, user_id, customer_name, customer_email,
		customer_phone, reservation_date, start_time, end_time, number_of_guests, status,
		needs_confirmation, manage_token_hash, notes, created_at, updated_at`

// activeStatuses is the SQL fragment selecting non-terminal reservations.
const activeStatuses = `status IN ('PENDING','CONFIRMED')`

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation reads one row in reservationCols order.
func scanReservation(rs rowScanner) (*model.Reservation, error) {
	var (
		r          model.Reservation
		tableID    sql.NullInt64
		userID     sql.NullInt64
		name       sql.NullString
		email      sql.NullString
		phone      sql.NullString
		startStr   string
		endStr     string
		status     string
		tokenHash  sql.NullString
		notes      sql.NullString
	)
	err := rs.Scan(
		&r.ID, &r.RestaurantID, &tableID, &userID, &name, &email,
		&phone, &r.ReservationDate, &startStr, &endStr, &r.NumberOfGuests, &status,
		&r.NeedsConfirmation, &tokenHash, &notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		r.TableID = &v
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		r.UserID = &v
	}
	if name.Valid {
		v := name.String
		r.CustomerName = &v
	}
	if email.Valid {
		v := email.String
		r.CustomerEmail = &v
	}
	if phone.Valid {
		v := phone.String
		r.CustomerPhone = &v
	}
	if tokenHash.Valid {
		v := tokenHash.String
		r.ManageTokenHash = &v
	}
	if notes.Valid {
		v := notes.String
		r.Notes = &v
	}
	if r.StartTime, err = model.ParseTimeOfDay(startStr); err != nil {
		return nil, err
	}
	if r.EndTime, err = model.ParseTimeOfDay(endStr); err != nil {
		return nil, err
	}
	r.Status = model.ReservationStatus(status)
	return &r, nil
}

// dateKey renders a calendar date the way the DATE column stores it.
func dateKey(t time.Time) string { return t.Format("2006-01-02") }

// isTxBusy reports whether err is a MySQL deadlock (1213) or lock-wait
// timeout (1205), the aborts a concurrent writer can cause.
func isTxBusy(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}

// ListActiveByTableAndDate returns the non-terminal reservations occupying
// the given table on the given date, ordered by start time.  This is the
// read path for availability maps and advisory checks; it takes no locks.
func (r *ReservationRepo) ListActiveByTableAndDate(ctx context.Context, tableID uint64, date time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
			   FROM reservations
			   WHERE table_id = ? AND reservation_date = ? AND ` + activeStatuses + `
			   ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, tableID, dateKey(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// CountActiveByUser returns how many non-terminal reservations the user
// currently holds at the restaurant, for per-user limit enforcement.
func (r *ReservationRepo) CountActiveByUser(ctx context.Context, userID, restaurantID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
			   WHERE user_id = ? AND restaurant_id = ? AND ` + activeStatuses
	var n int
	err := r.db.QueryRowContext(ctx, q, userID, restaurantID).Scan(&n)
	return n, err
}

// Insert persists an admitted reservation.  When the reservation is bound
// to a table, the table's active windows for the date are re-read with
// SELECT ... FOR UPDATE inside the same transaction as the insert, and the
// overlap check is re-run against them.  This closes the race between an
// advisory availability check and commit: two concurrent inserts for
// overlapping windows serialize on the row locks and the loser observes the
// winner's row.
//
// Returns booking.ErrTableConflict when the re-check finds an overlap and
// ErrTxBusy when the transaction is aborted by lock contention.  On success
// the generated ID and DB-assigned timestamps are populated on res.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if res.TableID != nil {
		if err := checkOverlapLocked(ctx, tx, *res.TableID, res.ReservationDate,
			booking.Interval{Start: res.StartTime, End: res.EndTime}, 0); err != nil {
			return err
		}
	}

	const ins = `INSERT INTO reservations
		(restaurant_id, table_id, user_id, customer_name, customer_email, customer_phone,
		 reservation_date, start_time, end_time, number_of_guests, status,
		 needs_confirmation, manage_token_hash, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.RestaurantID, res.TableID, res.UserID, res.CustomerName, res.CustomerEmail,
		res.CustomerPhone, dateKey(res.ReservationDate), res.StartTime.String(),
		res.EndTime.String(), res.NumberOfGuests, string(res.Status),
		res.NeedsConfirmation, res.ManageTokenHash, res.Notes,
	)
	if err != nil {
		if isTxBusy(err) {
			return ErrTxBusy
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back DB-assigned defaults so the caller returns the stored row.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if isTxBusy(err) {
			return ErrTxBusy
		}
		return err
	}
	committed = true
	return nil
}

// checkOverlapLocked reads the active windows of a table on a date under
// row locks and rejects when any overlaps want.  excludeID skips the
// reservation being modified (0 for inserts).  Must run inside tx.
func checkOverlapLocked(ctx context.Context, tx *sql.Tx, tableID uint64, date time.Time, want booking.Interval, excludeID uint64) error {
	const q = `SELECT start_time, end_time FROM reservations
			   WHERE table_id = ? AND reservation_date = ? AND id <> ? AND ` + activeStatuses + `
			   FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, tableID, dateKey(date), excludeID)
	if err != nil {
		if isTxBusy(err) {
			return ErrTxBusy
		}
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return err
		}
		start, err := model.ParseTimeOfDay(startStr)
		if err != nil {
			return err
		}
		end, err := model.ParseTimeOfDay(endStr)
		if err != nil {
			return err
		}
		if booking.Overlaps(want, booking.Interval{Start: start, End: end}) {
			return booking.ErrTableConflict
		}
	}
	if err := rows.Err(); err != nil {
		if isTxBusy(err) {
			return ErrTxBusy
		}
		return err
	}
	return nil
}

// AssignTable binds a waitlist-style reservation to a table, re-running the
// overlap check under the same locks as Insert.  It returns the updated
// reservation, booking.ErrTableConflict on overlap,
// booking.ErrIllegalTransition when the reservation is no longer active,
// and sql.ErrNoRows when it does not exist.
func (r *ReservationRepo) AssignTable(ctx context.Context, reservationID, tableID uint64) (*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, sel, reservationID))
	if err != nil {
		if isTxBusy(err) {
			return nil, ErrTxBusy
		}
		return nil, err
	}
	if !res.Status.IsActive() {
		return nil, booking.ErrIllegalTransition
	}

	if err := checkOverlapLocked(ctx, tx, tableID, res.ReservationDate,
		booking.Interval{Start: res.StartTime, End: res.EndTime}, res.ID); err != nil {
		return nil, err
	}

	const upd = `UPDATE reservations SET table_id = ?, updated_at = NOW() WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, tableID, res.ID); err != nil {
		if isTxBusy(err) {
			return nil, ErrTxBusy
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		if isTxBusy(err) {
			return nil, ErrTxBusy
		}
		return nil, err
	}
	committed = true
	res.TableID = &tableID
	return res, nil
}

// GetByID returns one reservation or sql.ErrNoRows.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, q, id))
}

// UpdateStatus moves a reservation between lifecycle states with a
// compare-and-set on the expected current status.  ErrStaleStatus means a
// concurrent actor changed the row first; the caller decides how to report
// that.  Lifecycle legality is the service's responsibility, the CAS only
// guarantees the decision was made against the committed state.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) error {
	const q = `UPDATE reservations SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		if isTxBusy(err) {
			return ErrTxBusy
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleStatus
	}
	return nil
}

// ListByUser returns all reservations the user has made across the
// platform, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
			   WHERE user_id = ? ORDER BY reservation_date DESC, start_time DESC`
	return r.queryList(ctx, q, userID)
}

// ListByRestaurantAndDate returns the restaurant's day sheet: every
// reservation for the date regardless of status, ordered by start time.
func (r *ReservationRepo) ListByRestaurantAndDate(ctx context.Context, restaurantID uint64, date time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
			   WHERE restaurant_id = ? AND reservation_date = ?
			   ORDER BY start_time, id`
	return r.queryList(ctx, q, restaurantID, dateKey(date))
}

// ListElapsedConfirmed returns CONFIRMED reservations whose window ended
// before now, the candidates the periodic sweep completes.
func (r *ReservationRepo) ListElapsedConfirmed(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
			   WHERE status = 'CONFIRMED'
				 AND (reservation_date < ? OR (reservation_date = ? AND end_time <= ?))
			   ORDER BY reservation_date, end_time`
	nowTOD := model.TimeOfDay(now.Hour()*60 + now.Minute())
	return r.queryList(ctx, q, dateKey(now), dateKey(now), nowTOD.String())
}

func (r *ReservationRepo) queryList(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}
