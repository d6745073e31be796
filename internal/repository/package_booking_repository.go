package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// PackageBookingRepo provides persistence for travel package bookings.
// Package bookings never touch the slot ledger; their lifecycle is a
// pure status machine plus the notified flag.
type PackageBookingRepo struct {
	db *sql.DB
}

func NewPackageBookingRepo(db *sql.DB) *PackageBookingRepo { return &PackageBookingRepo{db: db} }

// DB exposes the underlying handle so handlers can start transactions.
func (r *PackageBookingRepo) DB() *sql.DB { return r.db }

// Create inserts a package booking and populates the generated ID.  New
// bookings start notified so only a later admin decision raises an
// unseen update.
func (r *PackageBookingRepo) Create(ctx context.Context, b *model.PackageBooking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO package_bookings (user_id, package_id, status, quantity, total_price, notes, notified)
		 VALUES (?,?,?,?,?,?,1)`,
		b.UserID, b.PackageID, b.Status, b.Quantity, b.TotalPrice, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

const pkgBookingCols = `id, user_id, package_id, status, quantity, total_price, COALESCE(notes,''), notified, created_at, updated_at`

func scanPackageBooking(s interface{ Scan(...interface{}) error }) (model.PackageBooking, error) {
	var b model.PackageBooking
	err := s.Scan(&b.ID, &b.UserID, &b.PackageID, &b.Status, &b.Quantity, &b.TotalPrice,
		&b.Notes, &b.Notified, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// GetByIDTx loads a package booking with a row lock for a status
// transition.
func (r *PackageBookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.PackageBooking, error) {
	b, err := scanPackageBooking(tx.QueryRowContext(ctx,
		`SELECT `+pkgBookingCols+` FROM package_bookings WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return model.PackageBooking{}, ErrBookingNotFound
	}
	return b, err
}

// GetByID loads a package booking without locking.
func (r *PackageBookingRepo) GetByID(ctx context.Context, id uint64) (model.PackageBooking, error) {
	b, err := scanPackageBooking(r.db.QueryRowContext(ctx,
		`SELECT `+pkgBookingCols+` FROM package_bookings WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.PackageBooking{}, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatusTx rewrites the booking status inside a transaction.  When
// clearNotified is set the notified flag drops to zero so the student
// sees the decision as an unseen update.
func (r *PackageBookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, clearNotified bool) error {
	q := `UPDATE package_bookings SET status=? WHERE id=?`
	if clearNotified {
		q = `UPDATE package_bookings SET status=?, notified=0 WHERE id=?`
	}
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// AcknowledgeByUser marks decided bookings of the user as seen.  Only an
// explicit call flips the flag; reading never does.  Returns the number
// of bookings acknowledged.
func (r *PackageBookingRepo) AcknowledgeByUser(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE package_bookings SET notified=1 WHERE user_id=? AND notified=0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PackageBookingDetail is a package booking joined with its package, as
// shown to the owning student.
type PackageBookingDetail struct {
	ID          uint64          `json:"id"`
	PackageID   uint64          `json:"package_id"`
	PackageName string          `json:"package_name"`
	Status      string          `json:"status"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Notes       string          `json:"notes,omitempty"`
	Notified    bool            `json:"notified"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListByUser returns all package bookings of a student, newest first.
// Listing never mutates the notified flag.
func (r *PackageBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]PackageBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.package_id, p.name, b.status, b.quantity, b.total_price,
			COALESCE(b.notes,''), b.notified, b.created_at
		 FROM package_bookings b
		 JOIN travel_packages p ON p.id = b.package_id
		 WHERE b.user_id=?
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]PackageBookingDetail, 0)
	for rows.Next() {
		var d PackageBookingDetail
		if err := rows.Scan(&d.ID, &d.PackageID, &d.PackageName, &d.Status, &d.Quantity,
			&d.TotalPrice, &d.Notes, &d.Notified, &d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// AdminPackageBookingDetail extends the student view with the requester
// identity for the management list.
type AdminPackageBookingDetail struct {
	PackageBookingDetail
	UserID       uint64 `json:"user_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// ListAdmin returns package bookings matching an optional status filter,
// newest first.
func (r *PackageBookingRepo) ListAdmin(ctx context.Context, status string) ([]AdminPackageBookingDetail, error) {
	q := `SELECT b.id, b.package_id, p.name, b.status, b.quantity, b.total_price,
			COALESCE(b.notes,''), b.notified, b.created_at,
			b.user_id, u.full_name, u.email
		FROM package_bookings b
		JOIN travel_packages p ON p.id = b.package_id
		JOIN users u ON u.id = b.user_id`
	args := make([]interface{}, 0, 1)
	if status != "" {
		q += ` WHERE b.status=?`
		args = append(args, status)
	}
	q += ` ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]AdminPackageBookingDetail, 0)
	for rows.Next() {
		var d AdminPackageBookingDetail
		if err := rows.Scan(&d.ID, &d.PackageID, &d.PackageName, &d.Status, &d.Quantity,
			&d.TotalPrice, &d.Notes, &d.Notified, &d.CreatedAt,
			&d.UserID, &d.StudentName, &d.StudentEmail); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
