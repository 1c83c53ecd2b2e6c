package redemption

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store persists token records for one token domain. The two token domains
// (order confirmation, pickup verification) never share a store, so token
// uniqueness is scoped per domain.
type Store interface {
	// FindByToken returns the record holding the exact token string, or
	// ErrTokenNotFound.
	FindByToken(ctx context.Context, token string) (*Record, error)

	// FindByOwner returns the owner's most recently issued record, or
	// ErrNoActiveToken when the owner has never been issued one.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Record, error)

	// Create persists a new record. The store's uniqueness constraint on the
	// token column is the authoritative collision guard: a clash at commit
	// time fails with ErrDuplicateToken regardless of any earlier local check.
	Create(ctx context.Context, rec Record) (*Record, error)

	// MarkUsed sets used_at if and only if it is currently unset, as a single
	// atomic conditional update. Exactly one of two concurrent callers wins;
	// the loser observes ErrAlreadyUsed. A missing token fails with
	// ErrTokenNotFound. used_at is never overwritten once set.
	MarkUsed(ctx context.Context, token string, usedAt time.Time) (*Record, error)
}

// TokenExists adapts a store lookup into the existence-check shape the token
// generator's best-effort collision check expects.
func TokenExists(store Store) func(ctx context.Context, token string) (bool, error) {
	return func(ctx context.Context, token string) (bool, error) {
		_, err := store.FindByToken(ctx, token)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}
}
