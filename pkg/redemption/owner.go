package redemption

import (
	"context"

	"github.com/google/uuid"
)

// OwnerDirectory is the engine's window into the business records that tokens
// authorize. The business framework behind it (orders, shipments, their state
// machines) is an external collaborator; the engine only reads state, checks
// ownership, and triggers one transition on successful redemption.
type OwnerDirectory interface {
	// Principal returns the identity authorized to present tokens for the
	// owner. ok is false when the owner record has no associated principal,
	// in which case the foreign-principal check is skipped.
	Principal(ctx context.Context, ownerID uuid.UUID) (principal uuid.UUID, ok bool, err error)

	// State returns the owner's current business state.
	State(ctx context.Context, ownerID uuid.UUID) (string, error)

	// Redeem applies the downstream side effect of a consumed token, e.g.
	// validating a pickup or confirming a collection. It is invoked only
	// after the token has been atomically marked used.
	Redeem(ctx context.Context, ownerID uuid.UUID) error
}
