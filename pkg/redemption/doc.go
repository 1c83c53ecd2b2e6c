// Package redemption implements the capability-token lifecycle behind QR
// based order confirmation and in-store pickup: issue a collision-resistant
// secret token bound to one business record, encode it into a scannable
// payload, and later consume a presented token exactly once, transitioning
// the owning record as a side effect.
//
// # Components
//
//   - Record / Store  – persistence of issued tokens. The store's unique
//     index on the token column is the authoritative collision guard; the
//     generator's local existence check is only an optimization.
//   - MemoryStore     – mutex-guarded reference implementation.
//   - PostgresStore   – pgx-backed production implementation, one table per
//     token domain.
//   - Issuer          – idempotent issuance: an owner with an active token
//     gets the same token back, never a second one.
//   - Engine          – the verification state machine. A presented token is
//     observed as exactly one of: redeemed, invalid_format, not_found,
//     tampered, foreign, already_used, expired, not_ready, or
//     fulfillment_failed.
//
// # Concurrency
//
// Consumption is a single atomic compare-and-set against used_at being
// unset. Under a concurrent double scan exactly one caller redeems; the
// other deterministically observes already_used. Once set, used_at is never
// cleared or overwritten.
//
// # Failure policy
//
// A token is consumed on presentation, independent of whether the downstream
// fulfillment transition completes. A failed transition is surfaced as
// fulfillment_failed and logged at error level; the token stays spent to
// prevent replay. Verification outcomes are values, not errors: only storage
// faults propagate as errors from the engine.
package redemption
