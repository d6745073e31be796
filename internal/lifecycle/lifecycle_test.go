package lifecycle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourRules_CreateReserves(t *testing.T) {
	r := TourRules()

	eff, err := r.Transition(StatusNone, "pending", ActorRequester)
	require.NoError(t, err)
	assert.Equal(t, EffectReserve, eff)

	// only the requester creates bookings
	_, err = r.Transition(StatusNone, "pending", ActorAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTourRules_TransitionTable(t *testing.T) {
	r := TourRules()

	cases := []struct {
		name   string
		from   string
		to     string
		actor  Actor
		effect Effect
	}{
		{"admin confirms", "pending", "confirmed", ActorAdmin, EffectNone},
		{"admin cancels pending", "pending", "cancelled", ActorAdmin, EffectRelease},
		{"student cancels pending", "pending", "cancelled", ActorRequester, EffectRelease},
		{"admin cancels confirmed", "confirmed", "cancelled", ActorAdmin, EffectRelease},
		{"student cancels confirmed", "confirmed", "cancelled", ActorRequester, EffectRelease},
		{"admin restores to pending", "cancelled", "pending", ActorAdmin, EffectReserveIfAvailable},
		{"admin restores to confirmed", "cancelled", "confirmed", ActorAdmin, EffectReserveIfAvailable},
		{"admin completes pending", "pending", "completed", ActorAdmin, EffectNone},
		{"admin completes confirmed", "confirmed", "completed", ActorAdmin, EffectNone},
		{"admin completes cancelled", "cancelled", "completed", ActorAdmin, EffectNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eff, err := r.Transition(tc.from, tc.to, tc.actor)
			require.NoError(t, err)
			assert.Equal(t, tc.effect, eff)
		})
	}
}

func TestTourRules_RejectsIllegalTransitions(t *testing.T) {
	r := TourRules()

	cases := []struct {
		name  string
		from  string
		to    string
		actor Actor
	}{
		{"student confirms own booking", "pending", "confirmed", ActorRequester},
		{"student restores cancelled", "cancelled", "pending", ActorRequester},
		{"student completes", "confirmed", "completed", ActorRequester},
		{"completed is terminal", "completed", "pending", ActorAdmin},
		{"confirmed back to pending", "confirmed", "pending", ActorAdmin},
		{"no self transition", "pending", "pending", ActorAdmin},
		{"unknown target", "pending", "archived", ActorAdmin},
		{"unknown source", "held", "confirmed", ActorAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Transition(tc.from, tc.to, tc.actor)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

// Capacity conservation: cancelling releases exactly the slot that was
// reserved, and restoring consumes exactly one again.
func TestTourRules_RoundTripConservation(t *testing.T) {
	r := TourRules()

	slots := 2
	apply := func(eff Effect) {
		switch eff {
		case EffectReserve:
			require.Greater(t, slots, 0, "reserve against exhausted unit")
			slots--
		case EffectReserveIfAvailable:
			if slots > 0 {
				slots--
			}
		case EffectRelease:
			slots++
		}
	}

	// A books, admin confirms, B books.
	eff, err := r.Transition(StatusNone, "pending", ActorRequester)
	require.NoError(t, err)
	apply(eff)
	assert.Equal(t, 1, slots)

	eff, err = r.Transition("pending", "confirmed", ActorAdmin)
	require.NoError(t, err)
	apply(eff)
	assert.Equal(t, 1, slots)

	eff, err = r.Transition(StatusNone, "pending", ActorRequester)
	require.NoError(t, err)
	apply(eff)
	assert.Equal(t, 0, slots)

	// Admin cancels A, then restores A to pending.
	eff, err = r.Transition("confirmed", "cancelled", ActorAdmin)
	require.NoError(t, err)
	apply(eff)
	assert.Equal(t, 1, slots)

	eff, err = r.Transition("cancelled", "pending", ActorAdmin)
	require.NoError(t, err)
	apply(eff)
	assert.Equal(t, 0, slots)
}

func TestTourRules_ActiveStatuses(t *testing.T) {
	r := TourRules()
	assert.True(t, r.Active("pending"))
	assert.True(t, r.Active("confirmed"))
	assert.False(t, r.Active("cancelled"))
	assert.False(t, r.Active("completed"))
}

func TestPackageRules_Table(t *testing.T) {
	r := PackageRules()
	assert.False(t, r.HasCapacity)

	eff, err := r.Transition(StatusNone, "pending", ActorRequester)
	require.NoError(t, err)
	assert.Equal(t, EffectNone, eff)

	eff, err = r.Transition("pending", "approved", ActorAdmin)
	require.NoError(t, err)
	assert.Equal(t, EffectNone, eff)

	eff, err = r.Transition("pending", "rejected", ActorAdmin)
	require.NoError(t, err)
	assert.Equal(t, EffectNone, eff)

	eff, err = r.Transition("pending", "cancelled", ActorRequester)
	require.NoError(t, err)
	assert.Equal(t, EffectNone, eff)
}

func TestPackageRules_Gates(t *testing.T) {
	r := PackageRules()

	// students cannot decide their own requests
	_, err := r.Transition("pending", "approved", ActorRequester)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// admins do not cancel on behalf of students
	_, err = r.Transition("pending", "cancelled", ActorAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// cancel is only possible while pending
	_, err = r.Transition("approved", "cancelled", ActorRequester)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// decided requests stay decided
	_, err = r.Transition("approved", "rejected", ActorAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = r.Transition("rejected", "approved", ActorAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPackageRules_ClearsNotified(t *testing.T) {
	r := PackageRules()
	assert.True(t, r.ClearsNotified("approved"))
	assert.True(t, r.ClearsNotified("rejected"))
	assert.False(t, r.ClearsNotified("pending"))
	assert.False(t, r.ClearsNotified("cancelled"))
}

func TestValidatePayment(t *testing.T) {
	amt := decimal.NewFromInt(500)

	require.NoError(t, ValidatePayment("approved", amt, "1234"))

	// booking must be approved first
	assert.ErrorIs(t, ValidatePayment("pending", amt, "1234"), ErrBookingNotApproved)
	assert.ErrorIs(t, ValidatePayment("rejected", amt, "1234"), ErrBookingNotApproved)

	// amount must be strictly positive
	assert.ErrorIs(t, ValidatePayment("approved", decimal.Zero, "1234"), ErrValidation)
	assert.ErrorIs(t, ValidatePayment("approved", decimal.NewFromInt(-5), "1234"), ErrValidation)

	// token must be exactly four digits
	assert.ErrorIs(t, ValidatePayment("approved", amt, "123"), ErrValidation)
	assert.ErrorIs(t, ValidatePayment("approved", amt, "12345"), ErrValidation)
	assert.ErrorIs(t, ValidatePayment("approved", amt, "12a4"), ErrValidation)
	assert.ErrorIs(t, ValidatePayment("approved", amt, ""), ErrValidation)
}
