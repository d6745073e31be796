package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tour booking statuses.  A booking counts against the tour date's
// capacity while it is pending or confirmed ("active").
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// TourBooking records a student's claim on one TourDate.  The pair
// (UserID, TourDateID) is unique so a student cannot hold two bookings
// for the same date.  Status changes go through the lifecycle rules;
// the row itself never encodes ledger effects.
//
// Fields:
//
//	ID                  – primary key identifier.
//	UserID              – student who made the booking.
//	TourID              – booked tour.
//	TourDateID          – booked date (the inventory unit).
//	Status              – pending, confirmed, cancelled or completed.
//	TotalPrice          – price charged (tour's discounted price).
//	SpecialRequirements – free text from the student.
//	AdminNotes          – free text from administrators.
//	CreatedAt           – creation timestamp.
//	UpdatedAt           – last update timestamp.
type TourBooking struct {
	ID                  uint64          // tour_bookings.id
	UserID              uint64          // tour_bookings.user_id
	TourID              uint64          // tour_bookings.tour_id
	TourDateID          uint64          // tour_bookings.tour_date_id
	Status              string          // tour_bookings.status
	TotalPrice          decimal.Decimal // tour_bookings.total_price
	SpecialRequirements string          // tour_bookings.special_requirements
	AdminNotes          string          // tour_bookings.admin_notes
	CreatedAt           time.Time       // tour_bookings.created_at
	UpdatedAt           time.Time       // tour_bookings.updated_at
}
