package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses.  A payment is created in pending and moved to a
// terminal state only by an administrator.
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// Payment is the single monetary claim attached to an approved package
// booking.  Resubmission overwrites the existing row and forces the
// status back to pending so the claim is re-verified.
//
// Fields:
//
//	ID             – primary key identifier.
//	BookingID      – owning package booking (unique, cascade on delete).
//	Amount         – amount the student claims to have paid.
//	ReferenceToken – 4-digit transaction reference supplied by the student.
//	Status         – pending, verified or rejected.
//	AdminNotes     – optional notes from the verifying administrator.
//	CreatedAt      – creation timestamp.
//	UpdatedAt      – last update timestamp.
type Payment struct {
	ID             uint64          // payments.id
	BookingID      uint64          // payments.booking_id
	Amount         decimal.Decimal // payments.amount
	ReferenceToken string          // payments.reference_token
	Status         string          // payments.status
	AdminNotes     string          // payments.admin_notes
	CreatedAt      time.Time       // payments.created_at
	UpdatedAt      time.Time       // payments.updated_at
}
