package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package booking statuses.  Packages carry no capacity model, so none
// of these transitions touch a ledger.
const (
	PackagePending   = "pending"
	PackageApproved  = "approved"
	PackageRejected  = "rejected"
	PackageCancelled = "cancelled"
)

// TravelPackage is a generic bookable package without scheduled dates or
// slot limits.
type TravelPackage struct {
	ID          uint64          // travel_packages.id
	Name        string          // travel_packages.name
	Description string          // travel_packages.description
	Price       decimal.Decimal // travel_packages.price
	IsActive    bool            // travel_packages.is_active
	CreatedAt   time.Time       // travel_packages.created_at
}

// PackageBooking is a student's request for a travel package.  Admin
// decisions (approve/reject) clear the Notified flag; the student flips
// it back through an explicit acknowledge command, never as a side
// effect of listing bookings.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – requesting student.
//	PackageID  – requested package.
//	Status     – pending, approved, rejected or cancelled.
//	Quantity   – number of travellers.
//	TotalPrice – package price times quantity.
//	Notes      – free text from the student.
//	Notified   – whether the student has seen the latest admin decision.
//	CreatedAt  – creation timestamp.
//	UpdatedAt  – last update timestamp.
type PackageBooking struct {
	ID         uint64          // package_bookings.id
	UserID     uint64          // package_bookings.user_id
	PackageID  uint64          // package_bookings.package_id
	Status     string          // package_bookings.status
	Quantity   int             // package_bookings.quantity
	TotalPrice decimal.Decimal // package_bookings.total_price
	Notes      string          // package_bookings.notes
	Notified   bool            // package_bookings.notified
	CreatedAt  time.Time       // package_bookings.created_at
	UpdatedAt  time.Time       // package_bookings.updated_at
}
