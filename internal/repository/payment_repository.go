package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrPaymentNotFound is returned when no payment exists for a booking.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo persists payment claims for package bookings.  booking_id
// carries a unique index, so one booking holds at most one payment and
// resubmission is an upsert.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DB exposes the underlying handle so handlers can start transactions.
func (r *PaymentRepo) DB() *sql.DB { return r.db }

// UpsertTx inserts or overwrites the payment for a booking.  A resubmit
// replaces amount and reference and forces the status back to pending,
// discarding any earlier verification.
func (r *PaymentRepo) UpsertTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, amount, reference_token, status)
		 VALUES (?,?,?,'pending')
		 ON DUPLICATE KEY UPDATE amount=VALUES(amount), reference_token=VALUES(reference_token),
			status='pending', admin_notes=NULL`,
		p.BookingID, p.Amount, p.ReferenceToken)
	return err
}

const paymentCols = `id, booking_id, amount, reference_token, status, COALESCE(admin_notes,''), created_at, updated_at`

func scanPayment(s interface{ Scan(...interface{}) error }) (model.Payment, error) {
	var p model.Payment
	err := s.Scan(&p.ID, &p.BookingID, &p.Amount, &p.ReferenceToken, &p.Status,
		&p.AdminNotes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByBooking returns the payment attached to a booking.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE booking_id=? LIMIT 1`, bookingID))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// SetStatus records an admin verdict on a payment.  Status must be
// verified or rejected; notes are optional.
func (r *PaymentRepo) SetStatus(ctx context.Context, paymentID uint64, status, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status=?, admin_notes=NULLIF(?,'') WHERE id=?`,
		status, notes, paymentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// PaymentDetail is a payment joined with the booking fields needed to
// publish a status event after an admin verdict.
type PaymentDetail struct {
	model.Payment
	UserID      uint64
	PackageID   uint64
	PackageName string
}

// GetDetailByID loads a payment together with its booking's requester
// and package.
func (r *PaymentRepo) GetDetailByID(ctx context.Context, paymentID uint64) (PaymentDetail, error) {
	var d PaymentDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.booking_id, p.amount, p.reference_token, p.status,
			COALESCE(p.admin_notes,''), p.created_at, p.updated_at,
			b.user_id, b.package_id, tp.name
		FROM payments p
		JOIN package_bookings b ON b.id = p.booking_id
		JOIN travel_packages tp ON tp.id = b.package_id
		WHERE p.id=?`, paymentID).Scan(
		&d.ID, &d.BookingID, &d.Amount, &d.ReferenceToken, &d.Status,
		&d.AdminNotes, &d.CreatedAt, &d.UpdatedAt,
		&d.UserID, &d.PackageID, &d.PackageName)
	if err == sql.ErrNoRows {
		return PaymentDetail{}, ErrPaymentNotFound
	}
	return d, err
}

// PaymentReview is a payment joined with its booking and requester for
// the admin verification queue.
type PaymentReview struct {
	model.Payment
	PackageName  string `json:"package_name"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// ListForReview returns payments matching an optional status filter,
// oldest first so the queue drains in submission order.
func (r *PaymentRepo) ListForReview(ctx context.Context, status string) ([]PaymentReview, error) {
	q := `SELECT p.id, p.booking_id, p.amount, p.reference_token, p.status,
			COALESCE(p.admin_notes,''), p.created_at, p.updated_at,
			tp.name, u.full_name, u.email
		FROM payments p
		JOIN package_bookings b ON b.id = p.booking_id
		JOIN travel_packages tp ON tp.id = b.package_id
		JOIN users u ON u.id = b.user_id`
	args := make([]interface{}, 0, 1)
	if status != "" {
		q += ` WHERE p.status=?`
		args = append(args, status)
	}
	q += ` ORDER BY p.created_at`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]PaymentReview, 0)
	for rows.Next() {
		var pr PaymentReview
		if err := rows.Scan(&pr.ID, &pr.BookingID, &pr.Amount, &pr.ReferenceToken, &pr.Status,
			&pr.AdminNotes, &pr.CreatedAt, &pr.UpdatedAt,
			&pr.PackageName, &pr.StudentName, &pr.StudentEmail); err != nil {
			return nil, err
		}
		reviews = append(reviews, pr)
	}
	return reviews, rows.Err()
}
