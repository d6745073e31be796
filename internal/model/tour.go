package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tour describes a study tour offer that students can book.  Pricing is
// kept as DECIMAL(10,2) and mapped through shopspring/decimal to avoid
// float rounding on money.
//
// Fields:
//
//	ID              – primary key identifier.
//	Name            – display name of the tour.
//	Description     – long form description.
//	OriginalPrice   – list price before discount.
//	DiscountedPrice – price actually charged when booking.
//	DiscountPercent – advertised discount percentage.
//	MaxStudents     – advertised group size limit.
//	IsActive        – whether the tour is open for booking.
//	CreatedAt       – creation timestamp.
type Tour struct {
	ID              uint64          // tours.id
	Name            string          // tours.name
	Description     string          // tours.description
	OriginalPrice   decimal.Decimal // tours.original_price
	DiscountedPrice decimal.Decimal // tours.discounted_price
	DiscountPercent int             // tours.discount_percent
	MaxStudents     int             // tours.max_students
	IsActive        bool            // tours.is_active
	CreatedAt       time.Time       // tours.created_at
}

// TourDate is one scheduled occurrence of a tour and the unit the
// capacity ledger tracks.  AvailableSlots is the single source of truth
// for "slots left" and must stay within [0, Capacity].
//
// Fields:
//
//	ID             – primary key identifier.
//	TourID         – owning tour (cascade on delete).
//	StartDate      – first day of the trip.
//	EndDate        – last day of the trip.
//	Capacity       – configured maximum number of seats.
//	AvailableSlots – seats still available for booking.
//	IsAvailable    – whether the date is shown to students.
type TourDate struct {
	ID             uint64    // tour_dates.id
	TourID         uint64    // tour_dates.tour_id
	StartDate      time.Time // tour_dates.start_date
	EndDate        time.Time // tour_dates.end_date
	Capacity       int       // tour_dates.capacity
	AvailableSlots int       // tour_dates.available_slots
	IsAvailable    bool      // tour_dates.is_available
}

// TourInclusion is a single bullet point shown on a tour page, such as
// "Accommodation" or "Breakfast".
type TourInclusion struct {
	ID        uint64 // tour_inclusions.id
	TourID    uint64 // tour_inclusions.tour_id
	Name      string // tour_inclusions.name
	IconClass string // tour_inclusions.icon_class
}
