package redemption

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies what a verification attempt observed. Every attempt
// terminates in exactly one outcome; outcomes are values, never errors.
type Outcome string

const (
	// OutcomeRedeemed is the single success path: the token was consumed and
	// the owner transitioned.
	OutcomeRedeemed Outcome = "redeemed"
	// OutcomeInvalidFormat means the scanned payload could not be decoded.
	OutcomeInvalidFormat Outcome = "invalid_format"
	// OutcomeNotFound means the token string matches no record.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeTampered means the payload's issued_at does not match the record.
	OutcomeTampered Outcome = "tampered"
	// OutcomeForeign means the presenting principal does not own the record.
	OutcomeForeign Outcome = "foreign"
	// OutcomeAlreadyUsed means the token was spent by an earlier presentation.
	OutcomeAlreadyUsed Outcome = "already_used"
	// OutcomeExpired means the token's expiry has passed.
	OutcomeExpired Outcome = "expired"
	// OutcomeNotReady means the owner's business state does not yet permit
	// redemption.
	OutcomeNotReady Outcome = "not_ready"
	// OutcomeFulfillmentFailed means the token was consumed but the downstream
	// owner transition failed. The token stays spent.
	OutcomeFulfillmentFailed Outcome = "fulfillment_failed"
)

// Result is the structured outcome of one verification attempt.
type Result struct {
	Outcome Outcome
	// Message is a human-readable explanation suitable for display to the
	// person holding the scanner.
	Message string
	// OwnerID identifies the owning business record when one was found.
	OwnerID uuid.UUID
	// OwnerState carries the owner's business state for not_ready diagnostics.
	OwnerState string
	// UsedAt is set on the success path to the consumption timestamp.
	UsedAt *time.Time
}

// Redeemed reports whether the attempt consumed the token and completed the
// downstream transition.
func (r Result) Redeemed() bool {
	return r.Outcome == OutcomeRedeemed
}
