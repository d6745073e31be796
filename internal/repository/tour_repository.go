package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrTourNotFound is returned when a tour id cannot be resolved.
var ErrTourNotFound = errors.New("tour not found")

// TourRepo provides CRUD operations for study tours and their
// inclusions.  Tour dates live in TourDateRepo because they carry the
// capacity ledger.
type TourRepo struct {
	db *sql.DB
}

func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{db: db} }

// DB exposes the underlying handle so handlers can start transactions.
func (r *TourRepo) DB() *sql.DB { return r.db }

const tourCols = `id, name, description, original_price, discounted_price, discount_percent, max_students, is_active, created_at`

func scanTour(s interface{ Scan(...interface{}) error }) (model.Tour, error) {
	var t model.Tour
	err := s.Scan(&t.ID, &t.Name, &t.Description, &t.OriginalPrice, &t.DiscountedPrice,
		&t.DiscountPercent, &t.MaxStudents, &t.IsActive, &t.CreatedAt)
	return t, err
}

// Create inserts a tour and returns its ID.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tours (name, description, original_price, discounted_price, discount_percent, max_students, is_active)
		 VALUES (?,?,?,?,?,?,?)`,
		t.Name, t.Description, t.OriginalPrice, t.DiscountedPrice, t.DiscountPercent, t.MaxStudents, t.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the mutable columns of a tour.  ErrTourNotFound is
// returned when no row matches.
func (r *TourRepo) Update(ctx context.Context, t *model.Tour) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tours SET name=?, description=?, original_price=?, discounted_price=?, discount_percent=?, max_students=?, is_active=?
		 WHERE id=?`,
		t.Name, t.Description, t.OriginalPrice, t.DiscountedPrice, t.DiscountPercent, t.MaxStudents, t.IsActive, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// Delete removes a tour.  Dates, inclusions and bookings cascade via
// foreign keys.
func (r *TourRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// GetByID returns a single tour.  ErrTourNotFound is returned when the
// id does not exist.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (model.Tour, error) {
	t, err := scanTour(r.db.QueryRowContext(ctx,
		`SELECT `+tourCols+` FROM tours WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.Tour{}, ErrTourNotFound
	}
	return t, err
}

// GetActiveByID returns a tour only when it is open for booking.
func (r *TourRepo) GetActiveByID(ctx context.Context, id uint64) (model.Tour, error) {
	t, err := scanTour(r.db.QueryRowContext(ctx,
		`SELECT `+tourCols+` FROM tours WHERE id=? AND is_active=1 LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.Tour{}, ErrTourNotFound
	}
	return t, err
}

// ListActive returns all bookable tours, newest first.
func (r *TourRepo) ListActive(ctx context.Context) ([]model.Tour, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tourCols+` FROM tours WHERE is_active=1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tours := make([]model.Tour, 0)
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

// ListAll returns every tour regardless of active flag, for the admin
// inventory view.
func (r *TourRepo) ListAll(ctx context.Context) ([]model.Tour, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tourCols+` FROM tours ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tours := make([]model.Tour, 0)
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

// Inclusions returns the inclusion bullet points for a tour.
func (r *TourRepo) Inclusions(ctx context.Context, tourID uint64) ([]model.TourInclusion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tour_id, name, icon_class FROM tour_inclusions WHERE tour_id=? ORDER BY id`, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	incs := make([]model.TourInclusion, 0)
	for rows.Next() {
		var inc model.TourInclusion
		if err := rows.Scan(&inc.ID, &inc.TourID, &inc.Name, &inc.IconClass); err != nil {
			return nil, err
		}
		incs = append(incs, inc)
	}
	return incs, rows.Err()
}

// AddInclusion appends one inclusion row to a tour.
func (r *TourRepo) AddInclusion(ctx context.Context, tourID uint64, name, iconClass string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tour_inclusions (tour_id, name, icon_class) VALUES (?,?,?)`,
		tourID, name, iconClass)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// DeleteInclusion removes one inclusion row.
func (r *TourRepo) DeleteInclusion(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tour_inclusions WHERE id=?`, id)
	return err
}

// ConfirmedRevenue sums the total price of confirmed bookings across all
// tours.  It feeds the admin dashboard.
func (r *TourRepo) ConfirmedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total_price) FROM tour_bookings WHERE status='confirmed'`).Scan(&raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw.String)
}
