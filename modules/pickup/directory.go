package pickup

import (
	"context"

	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/redemption"
)

// Directory is the module's window into the fulfillment system. Pickings,
// their state machine, and the validation that hands goods over live outside
// this repository.
//
// Redeem is expected to validate the picking (the "hand over the goods"
// transition); State reports the picking's fulfillment state, where
// "assigned" means ready for collection and "done" means already picked up.
type Directory interface {
	redemption.OwnerDirectory

	// CustomerEmail returns the address the pickup QR is delivered to, or
	// ok=false when the picking has no reachable customer.
	CustomerEmail(ctx context.Context, pickingID uuid.UUID) (addr string, ok bool, err error)

	// Reference returns the picking's human-readable reference, e.g.
	// "WH/OUT/00042".
	Reference(ctx context.Context, pickingID uuid.UUID) (string, error)
}

// Eligibility decides whether a picking participates in QR pickup at all.
// Store-pickup detection (carrier, picking type, destination) is business
// logic owned by the fulfillment system; the module only honors the verdict.
// A nil Eligibility treats every picking as eligible.
type Eligibility func(ctx context.Context, pickingID uuid.UUID) (bool, error)
