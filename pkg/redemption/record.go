package redemption

import (
	"time"

	"github.com/google/uuid"
)

// Record is one issued token bound to exactly one owning business record.
// A record is immutable after creation except for the single UsedAt write
// performed at redemption. Records are never deleted; spent and expired
// tokens are kept for audit.
type Record struct {
	OwnerID   uuid.UUID
	Token     string
	IssuedAt  time.Time
	ExpiresAt *time.Time // nil means the token never expires
	UsedAt    *time.Time // nil until redeemed, set exactly once
	Version   int
}

// Used reports whether the token has been redeemed.
func (r Record) Used() bool {
	return r.UsedAt != nil
}

// Expired reports whether the token's expiry, if any, has passed.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// Active reports whether the token can still be redeemed at the given time.
func (r Record) Active(now time.Time) bool {
	return !r.Used() && !r.Expired(now)
}
