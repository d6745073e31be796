package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrBookingNotFound is returned when a booking id cannot be resolved.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides CRUD operations for study tour bookings.  Status
// rewrites happen through the ...Tx methods so the ledger effect decided
// by the lifecycle rules lands in the same transaction.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can start transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking within an existing transaction and
// populates the generated ID.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.TourBooking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tour_bookings (user_id, tour_id, tour_date_id, status, total_price, special_requirements)
		 VALUES (?,?,?,?,?,?)`,
		b.UserID, b.TourID, b.TourDateID, b.Status, b.TotalPrice, b.SpecialRequirements)
	if err != nil {
		// MySQL error 1062: the unique (user_id, tour_date_id) index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateBooking
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// HasActiveTx reports whether the user already holds a pending or
// confirmed booking for the tour date.  Runs inside the booking
// transaction so the duplicate guard and the insert cannot be split by
// a concurrent request.
func (r *BookingRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, userID, dateID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM tour_bookings
		 WHERE user_id=? AND tour_date_id=? AND status IN ('pending','confirmed') LIMIT 1`,
		userID, dateID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const bookingCols = `id, user_id, tour_id, tour_date_id, status, total_price,
	COALESCE(special_requirements,''), COALESCE(admin_notes,''), created_at, updated_at`

func scanBooking(s interface{ Scan(...interface{}) error }) (model.TourBooking, error) {
	var b model.TourBooking
	err := s.Scan(&b.ID, &b.UserID, &b.TourID, &b.TourDateID, &b.Status, &b.TotalPrice,
		&b.SpecialRequirements, &b.AdminNotes, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// GetByIDTx loads a booking with a row lock so a status transition sees
// a stable current status.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.TourBooking, error) {
	b, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM tour_bookings WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return model.TourBooking{}, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatusTx rewrites the status of a booking inside a transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tour_bookings SET status=? WHERE id=?`, status, id)
	return err
}

// SetAdminNotesTx attaches administrator notes to a booking inside the
// same transaction as the status rewrite, so notes and status land or
// fail together.
func (r *BookingRepo) SetAdminNotesTx(ctx context.Context, tx *sql.Tx, id uint64, notes string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tour_bookings SET admin_notes=? WHERE id=?`, notes, id)
	return err
}

// DeleteTx removes a booking row inside a transaction.  The caller is
// responsible for releasing the slot first when the booking was active.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tour_bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingDetail is a booking joined with its tour and date, as shown to
// the owning student.
type BookingDetail struct {
	ID                  uint64          `json:"id"`
	TourID              uint64          `json:"tour_id"`
	TourName            string          `json:"tour_name"`
	TourDateID          uint64          `json:"tour_date_id"`
	StartDate           string          `json:"start_date"`
	EndDate             string          `json:"end_date"`
	Status              string          `json:"status"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	SpecialRequirements string          `json:"special_requirements,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

const detailQuery = `SELECT b.id, b.tour_id, t.name, b.tour_date_id,
		DATE_FORMAT(d.start_date,'%Y-%m-%d'), DATE_FORMAT(d.end_date,'%Y-%m-%d'),
		b.status, b.total_price, COALESCE(b.special_requirements,''), b.created_at
	FROM tour_bookings b
	JOIN tours t ON t.id = b.tour_id
	JOIN tour_dates d ON d.id = b.tour_date_id`

func scanDetail(s interface{ Scan(...interface{}) error }) (BookingDetail, error) {
	var d BookingDetail
	err := s.Scan(&d.ID, &d.TourID, &d.TourName, &d.TourDateID, &d.StartDate, &d.EndDate,
		&d.Status, &d.TotalPrice, &d.SpecialRequirements, &d.CreatedAt)
	return d, err
}

// GetDetailForUser returns one booking with tour and date details,
// restricted to the owning student.  sql.ErrNoRows surfaces when the id
// does not exist; ErrForbidden when it belongs to someone else.
func (r *BookingRepo) GetDetailForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM tour_bookings WHERE id=? LIMIT 1`, bookingID).Scan(&ownerID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailQuery+` WHERE b.id=?`, bookingID))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all bookings of a student, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		detailQuery+` WHERE b.user_id=? ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// TotalSpentByUser sums the total price of the user's non-cancelled
// bookings for the travel history page.
func (r *BookingRepo) TotalSpentByUser(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total_price) FROM tour_bookings WHERE user_id=? AND status <> 'cancelled'`,
		userID).Scan(&raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw.String)
}

// AdminBookingDetail extends BookingDetail with the booking student's
// identity and admin notes for the management view.
type AdminBookingDetail struct {
	BookingDetail
	UserID       uint64 `json:"user_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	AdminNotes   string `json:"admin_notes,omitempty"`
}

// AdminFilter narrows the admin booking list.  Search matches student
// name, email, student number and tour name.  Page is 1-based.
type AdminFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// ListAdmin returns one page of bookings matching the filter along with
// the total number of matches.
func (r *BookingRepo) ListAdmin(ctx context.Context, f AdminFilter) ([]AdminBookingDetail, int, error) {
	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 6)
	if f.Search != "" {
		where += ` AND (u.full_name LIKE ? OR u.email LIKE ? OR u.student_no LIKE ? OR t.name LIKE ?)`
		like := "%" + f.Search + "%"
		args = append(args, like, like, like, like)
	}
	if f.Status != "" {
		where += ` AND b.status=?`
		args = append(args, f.Status)
	}

	countQ := `SELECT COUNT(*)
		FROM tour_bookings b
		JOIN tours t ON t.id = b.tour_id
		JOIN users u ON u.id = b.user_id` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.PerPage <= 0 {
		f.PerPage = 10
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.PerPage

	q := `SELECT b.id, b.tour_id, t.name, b.tour_date_id,
			DATE_FORMAT(d.start_date,'%Y-%m-%d'), DATE_FORMAT(d.end_date,'%Y-%m-%d'),
			b.status, b.total_price, COALESCE(b.special_requirements,''), b.created_at,
			b.user_id, u.full_name, u.email, COALESCE(b.admin_notes,'')
		FROM tour_bookings b
		JOIN tours t ON t.id = b.tour_id
		JOIN tour_dates d ON d.id = b.tour_date_id
		JOIN users u ON u.id = b.user_id` + where + `
		ORDER BY b.created_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, f.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	details := make([]AdminBookingDetail, 0)
	for rows.Next() {
		var d AdminBookingDetail
		if err := rows.Scan(&d.ID, &d.TourID, &d.TourName, &d.TourDateID, &d.StartDate, &d.EndDate,
			&d.Status, &d.TotalPrice, &d.SpecialRequirements, &d.CreatedAt,
			&d.UserID, &d.StudentName, &d.StudentEmail, &d.AdminNotes); err != nil {
			return nil, 0, err
		}
		details = append(details, d)
	}
	return details, total, rows.Err()
}

// StatusCounts returns how many bookings sit in each status.
func (r *BookingRepo) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tour_bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ApproveAllPendingTx confirms every pending booking in one statement
// and returns the number of rows touched.  Confirmation has no ledger
// effect, so a single UPDATE is safe.
func (r *BookingRepo) ApproveAllPendingTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE tour_bookings SET status='confirmed' WHERE status='pending'`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelledRef identifies a cancelled booking and the date it would
// reclaim a slot from when restored.
type CancelledRef struct {
	ID         uint64
	TourDateID uint64
}

// ListCancelledTx returns all cancelled bookings with their dates,
// locked for the duration of the restore batch.
func (r *BookingRepo) ListCancelledTx(ctx context.Context, tx *sql.Tx) ([]CancelledRef, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, tour_date_id FROM tour_bookings WHERE status='cancelled' FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	refs := make([]CancelledRef, 0)
	for rows.Next() {
		var ref CancelledRef
		if err := rows.Scan(&ref.ID, &ref.TourDateID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
