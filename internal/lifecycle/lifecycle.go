// Package lifecycle is the single authority for booking status
// transitions and their paired capacity ledger effects.  Both booking
// variants (study tour bookings with a slot ledger, package bookings
// without one) are expressed as one parameterized rule set instead of
// separate per-handler switch statements.  The package is pure: it
// decides whether a transition is legal and which ledger effect must
// accompany it, while repositories apply the effect inside the same
// transaction that rewrites the booking row.
package lifecycle

import "errors"

// ErrInvalidTransition is returned when a requested status change is not
// in the allowed set for the variant, or the acting role is not permitted
// to perform it.  Handlers translate it into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid status transition")

// Actor identifies who is requesting a transition.
type Actor int

const (
	ActorRequester Actor = iota // the student who owns the booking
	ActorAdmin                  // an administrator
)

// Effect is the ledger side effect paired with a transition.
type Effect int

const (
	// EffectNone leaves the capacity counter untouched.
	EffectNone Effect = iota
	// EffectReserve decrements the counter and fails the whole
	// transition when no slot is left.
	EffectReserve
	// EffectReserveIfAvailable decrements the counter when a slot is
	// left but lets the transition proceed either way.  Used when an
	// administrator restores a cancelled booking.
	EffectReserveIfAvailable
	// EffectRelease increments the counter, capped at the unit's
	// configured capacity.
	EffectRelease
)

// StatusNone is the pseudo-status of a booking that does not exist yet.
// Creation is modelled as the transition StatusNone -> initial status.
const StatusNone = ""

type transition struct {
	from, to string
}

type rule struct {
	actors map[Actor]bool
	effect Effect
}

// Rules is the transition table for one booking variant.
type Rules struct {
	// HasCapacity reports whether this variant maintains a slot ledger.
	HasCapacity bool
	// Initial is the status assigned on creation.
	Initial string

	statuses map[string]bool
	active   map[string]bool
	notify   map[string]bool
	table    map[transition]rule
}

// Valid reports whether s is a known status for this variant.
func (r Rules) Valid(s string) bool { return r.statuses[s] }

// Active reports whether a booking in status s counts against capacity.
func (r Rules) Active(s string) bool { return r.active[s] }

// ClearsNotified reports whether an admin transition into status s must
// reset the requester's notified flag.
func (r Rules) ClearsNotified(s string) bool { return r.notify[s] }

// Transition decides whether actor may move a booking from one status to
// another and returns the ledger effect the caller must apply.  It
// returns ErrInvalidTransition for unknown statuses, illegal pairs and
// disallowed actors.
func (r Rules) Transition(from, to string, actor Actor) (Effect, error) {
	if !r.statuses[to] || (from != StatusNone && !r.statuses[from]) {
		return EffectNone, ErrInvalidTransition
	}
	if from == to {
		return EffectNone, ErrInvalidTransition
	}
	rl, ok := r.table[transition{from, to}]
	if !ok || !rl.actors[actor] {
		return EffectNone, ErrInvalidTransition
	}
	return rl.effect, nil
}

func anyActor() map[Actor]bool {
	return map[Actor]bool{ActorRequester: true, ActorAdmin: true}
}

func adminOnly() map[Actor]bool {
	return map[Actor]bool{ActorAdmin: true}
}

func requesterOnly() map[Actor]bool {
	return map[Actor]bool{ActorRequester: true}
}

// TourRules returns the four-state table used for study tour bookings.
// Pending and confirmed bookings hold a slot; cancellation releases it
// and restoring from cancelled takes one again when available.  Any
// non-terminal booking can be marked completed by an administrator
// without touching the ledger.
func TourRules() Rules {
	const (
		pending   = "pending"
		confirmed = "confirmed"
		cancelled = "cancelled"
		completed = "completed"
	)
	return Rules{
		HasCapacity: true,
		Initial:     pending,
		statuses:    map[string]bool{pending: true, confirmed: true, cancelled: true, completed: true},
		active:      map[string]bool{pending: true, confirmed: true},
		table: map[transition]rule{
			{StatusNone, pending}:  {requesterOnly(), EffectReserve},
			{pending, confirmed}:   {adminOnly(), EffectNone},
			{pending, cancelled}:   {anyActor(), EffectRelease},
			{confirmed, cancelled}: {anyActor(), EffectRelease},
			{cancelled, pending}:   {adminOnly(), EffectReserveIfAvailable},
			{cancelled, confirmed}: {adminOnly(), EffectReserveIfAvailable},
			{pending, completed}:   {adminOnly(), EffectNone},
			{confirmed, completed}: {adminOnly(), EffectNone},
			{cancelled, completed}: {adminOnly(), EffectNone},
		},
	}
}

// PackageRules returns the three-state table used for travel package
// bookings.  Packages carry no capacity model, so every effect is
// EffectNone.  Approve and reject are admin decisions that clear the
// requester's notified flag; the requester may only cancel while the
// booking is still pending.
func PackageRules() Rules {
	const (
		pending   = "pending"
		approved  = "approved"
		rejected  = "rejected"
		cancelled = "cancelled"
	)
	return Rules{
		HasCapacity: false,
		Initial:     pending,
		statuses:    map[string]bool{pending: true, approved: true, rejected: true, cancelled: true},
		active:      map[string]bool{},
		notify:      map[string]bool{approved: true, rejected: true},
		table: map[transition]rule{
			{StatusNone, pending}: {requesterOnly(), EffectNone},
			{pending, approved}:   {adminOnly(), EffectNone},
			{pending, rejected}:   {adminOnly(), EffectNone},
			{pending, cancelled}:  {requesterOnly(), EffectNone},
		},
	}
}
