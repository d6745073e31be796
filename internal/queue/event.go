// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingStatusEvent is published whenever a booking changes status,
// for both study tour and travel package bookings.  It carries enough
// information for downstream consumers to log or notify without
// querying the primary database.
type BookingStatusEvent struct {
	BookingID   uint64 `json:"booking_id"`
	BookingKind string `json:"booking_kind"` // "tour", "package" or "payment"
	UserID      uint64 `json:"user_id"`
	ItemID      uint64 `json:"item_id"` // tour id or package id
	ItemName    string `json:"item_name"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
	TotalPrice  string `json:"total_price"`
	ChangedAt   string `json:"changed_at"`
}
