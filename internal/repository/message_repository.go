package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/unitravel/tour-booking-api/internal/model"
)

// ErrMessageNotFound is returned when a contact message id cannot be
// resolved.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepo persists contact form submissions.
type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts a contact message.  UserID may be nil for anonymous
// senders.
func (r *MessageRepo) Create(ctx context.Context, m *model.ContactMessage) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (user_id, first_name, last_name, email, phone, subject, message, status)
		 VALUES (?,?,?,?,?,?,?,'unread')`,
		m.UserID, m.FirstName, m.LastName, m.Email, m.Phone, m.Subject, m.Message)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns messages matching an optional status filter, newest
// first.
func (r *MessageRepo) List(ctx context.Context, status string) ([]model.ContactMessage, error) {
	q := `SELECT id, user_id, first_name, last_name, email, COALESCE(phone,''), subject, message, status, created_at
		FROM contact_messages`
	args := make([]interface{}, 0, 1)
	if status != "" {
		q += ` WHERE status=?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.FirstName, &m.LastName, &m.Email,
			&m.Phone, &m.Subject, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SetStatus moves a message between unread, read and replied.
func (r *MessageRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Delete removes a message.
func (r *MessageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}
