package lifecycle

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrBookingNotApproved is returned when a payment is submitted against
// a package booking that is not in the approved status.
var ErrBookingNotApproved = errors.New("booking not approved")

// ErrValidation is returned when the payment amount or reference token
// is malformed.  The wrapping handler reports the offending field.
var ErrValidation = errors.New("validation failed")

// referenceTokenLen is the exact number of digits expected in a payment
// reference token.
const referenceTokenLen = 4

// ValidatePayment checks a payment submission against an owning booking
// status.  The amount must be strictly positive and the reference token
// exactly four ASCII digits.  The booking must already be approved.
func ValidatePayment(bookingStatus string, amount decimal.Decimal, token string) error {
	if bookingStatus != "approved" {
		return ErrBookingNotApproved
	}
	if !amount.IsPositive() {
		return ErrValidation
	}
	if len(token) != referenceTokenLen {
		return ErrValidation
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return ErrValidation
		}
	}
	return nil
}
