package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrDateNotFound is returned when a tour date id cannot be resolved.
var ErrDateNotFound = errors.New("tour date not found")

// TourDateRepo owns the capacity ledger.  available_slots is the single
// source of truth for remaining seats and every mutation below keeps the
// invariant 0 <= available_slots <= capacity.  Reserve and release are
// single conditional UPDATE statements so the check and the write can
// never be separated by a concurrent request.
type TourDateRepo struct {
	db *sql.DB
}

func NewTourDateRepo(db *sql.DB) *TourDateRepo { return &TourDateRepo{db: db} }

const dateCols = `id, tour_id, start_date, end_date, capacity, available_slots, is_available`

func scanDate(s interface{ Scan(...interface{}) error }) (model.TourDate, error) {
	var d model.TourDate
	err := s.Scan(&d.ID, &d.TourID, &d.StartDate, &d.EndDate, &d.Capacity, &d.AvailableSlots, &d.IsAvailable)
	return d, err
}

// Create inserts a date for a tour.  available_slots starts at the full
// capacity.
func (r *TourDateRepo) Create(ctx context.Context, d *model.TourDate) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tour_dates (tour_id, start_date, end_date, capacity, available_slots, is_available)
		 VALUES (?,?,?,?,?,?)`,
		d.TourID, d.StartDate, d.EndDate, d.Capacity, d.Capacity, d.IsAvailable)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns one tour date.
func (r *TourDateRepo) GetByID(ctx context.Context, id uint64) (model.TourDate, error) {
	d, err := scanDate(r.db.QueryRowContext(ctx,
		`SELECT `+dateCols+` FROM tour_dates WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.TourDate{}, ErrDateNotFound
	}
	return d, err
}

// GetAvailableByIDTx returns a bookable date within a transaction,
// locking the row so the booking path sees a stable view.
func (r *TourDateRepo) GetAvailableByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.TourDate, error) {
	d, err := scanDate(tx.QueryRowContext(ctx,
		`SELECT `+dateCols+` FROM tour_dates WHERE id=? AND is_available=1 LIMIT 1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return model.TourDate{}, ErrDateNotFound
	}
	return d, err
}

// ListByTour returns the bookable dates of a tour in chronological order.
func (r *TourDateRepo) ListByTour(ctx context.Context, tourID uint64) ([]model.TourDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dateCols+` FROM tour_dates WHERE tour_id=? AND is_available=1 ORDER BY start_date`, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dates := make([]model.TourDate, 0)
	for rows.Next() {
		d, err := scanDate(rows)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// SlotsRemaining answers the remainingCapacity query for one date.
func (r *TourDateRepo) SlotsRemaining(ctx context.Context, id uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT available_slots FROM tour_dates WHERE id=? LIMIT 1`, id).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, ErrDateNotFound
	}
	return n, err
}

// ReserveTx takes one slot with an atomic conditional decrement.  Zero
// affected rows means the counter was already at zero, which surfaces as
// ErrNoCapacity without ever having read the counter separately.
func (r *TourDateRepo) ReserveTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE tour_dates SET available_slots = available_slots - 1 WHERE id=? AND available_slots > 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoCapacity
	}
	return nil
}

// ReleaseTx returns one slot, capped at the configured capacity so
// repeated releases can never inflate the counter past its maximum.
func (r *TourDateRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tour_dates SET available_slots = available_slots + 1 WHERE id=? AND available_slots < capacity`, id)
	return err
}

// Update rewrites schedule and availability fields of a date.  Capacity
// changes adjust available_slots by the same delta, floored at zero.
func (r *TourDateRepo) Update(ctx context.Context, d *model.TourDate) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tour_dates
		 SET start_date=?, end_date=?,
		     available_slots = GREATEST(0, available_slots + (? - capacity)),
		     capacity=?, is_available=?
		 WHERE id=?`,
		d.StartDate, d.EndDate, d.Capacity, d.Capacity, d.IsAvailable, d.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDateNotFound
	}
	return nil
}

// Delete removes a tour date and, via cascade, its bookings.
func (r *TourDateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tour_dates WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDateNotFound
	}
	return nil
}
