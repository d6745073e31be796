// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrNoCapacity signals that a reservation was attempted
// against an exhausted tour date, while ErrDuplicateBooking reports a
// second booking for the same (student, tour date) pair.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNoCapacity is returned when a slot reservation fails because the
// tour date has no slots left.  The check and the decrement are a single
// conditional UPDATE, so two concurrent requests can never both take the
// last slot.  Handlers translate this into HTTP 409.
var ErrNoCapacity = errors.New("no slots available")

// ErrDuplicateBooking is returned when a student already holds an active
// booking for the same tour date.  Handlers translate this into HTTP 409.
var ErrDuplicateBooking = errors.New("duplicate booking")
