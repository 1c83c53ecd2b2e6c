package redemption

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/payload"
)

// Engine verifies presented tokens and consumes them at most once. All
// business-level failures are reported as Result values; only storage faults
// surface as errors.
type Engine struct {
	store  Store
	owners OwnerDirectory
	log    *slog.Logger
	now    func() time.Time
	// readyStates, when non-empty, restricts redemption to owners currently
	// in one of these business states.
	readyStates map[string]struct{}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithReadyStates restricts redemption to owners in one of the given states.
// Without this option any owner state is accepted.
func WithReadyStates(states ...string) EngineOption {
	return func(e *Engine) {
		e.readyStates = make(map[string]struct{}, len(states))
		for _, s := range states {
			e.readyStates[s] = struct{}{}
		}
	}
}

// WithClock overrides the engine's time source, mainly for expiry tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithEngineLogger attaches a structured logger for the one condition worth
// alerting on: a consumed token whose downstream transition failed.
func WithEngineLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates a verification engine over a token store and the owner
// directory it redeems against.
func NewEngine(store Store, owners OwnerDirectory, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		owners: owners,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VerifyScan verifies raw scan data: the payload is decoded first, and the
// embedded issued_at is checked against the stored record to detect payloads
// edited independently of the database.
func (e *Engine) VerifyScan(ctx context.Context, raw string, principal *uuid.UUID) (Result, error) {
	p, err := payload.Decode(raw)
	if err != nil {
		return Result{
			Outcome: OutcomeInvalidFormat,
			Message: "The scanned code could not be read. Please present the original QR code.",
		}, nil
	}
	return e.verify(ctx, p.Token, p.IssuedAt, principal)
}

// VerifyToken verifies a bare token string, as extracted from a verify URL.
// No payload-level tamper check is possible in this form.
func (e *Engine) VerifyToken(ctx context.Context, token string, principal *uuid.UUID) (Result, error) {
	return e.verify(ctx, token, "", principal)
}

func (e *Engine) verify(ctx context.Context, token, claimedIssuedAt string, principal *uuid.UUID) (Result, error) {
	rec, err := e.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Result{
				Outcome: OutcomeNotFound,
				Message: "No matching record found for this code.",
			}, nil
		}
		return Result{}, err
	}

	if claimedIssuedAt != "" {
		stored := rec.IssuedAt.UTC().Truncate(time.Second).Format(time.RFC3339)
		if stored != claimedIssuedAt {
			return Result{
				Outcome: OutcomeTampered,
				OwnerID: rec.OwnerID,
				Message: "The code's issue timestamp does not match our records.",
			}, nil
		}
	}

	if principal != nil {
		ownerPrincipal, ok, err := e.owners.Principal(ctx, rec.OwnerID)
		if err != nil {
			return Result{}, err
		}
		if ok && ownerPrincipal != *principal {
			return Result{
				Outcome: OutcomeForeign,
				OwnerID: rec.OwnerID,
				Message: "This code does not belong to your account.",
			}, nil
		}
	}

	if rec.Used() {
		return Result{
			Outcome: OutcomeAlreadyUsed,
			OwnerID: rec.OwnerID,
			UsedAt:  rec.UsedAt,
			Message: "This code has already been used.",
		}, nil
	}

	now := e.now()
	if rec.Expired(now) {
		return Result{
			Outcome: OutcomeExpired,
			OwnerID: rec.OwnerID,
			Message: "This code has expired.",
		}, nil
	}

	state, err := e.owners.State(ctx, rec.OwnerID)
	if err != nil {
		return Result{}, err
	}
	if !e.redeemableState(state) {
		return Result{
			Outcome:    OutcomeNotReady,
			OwnerID:    rec.OwnerID,
			OwnerState: state,
			Message:    "The order is not ready for collection yet (state: " + state + ").",
		}, nil
	}

	consumed, err := e.store.MarkUsed(ctx, token, now)
	if err != nil {
		// A concurrent scan won the race between our read and the conditional
		// update. Report it the same way as any re-scan of a spent token.
		if errors.Is(err, ErrAlreadyUsed) {
			return Result{
				Outcome: OutcomeAlreadyUsed,
				OwnerID: rec.OwnerID,
				Message: "This code has already been used.",
			}, nil
		}
		if errors.Is(err, ErrTokenNotFound) {
			return Result{
				Outcome: OutcomeNotFound,
				Message: "No matching record found for this code.",
			}, nil
		}
		return Result{}, err
	}

	// The token is spent from here on, whatever happens downstream. A token
	// is a single-use credential consumed on presentation; keeping it spent
	// when the fulfillment transition fails closes the replay window at the
	// cost of a possible consumed-but-unfulfilled record.
	if err := e.owners.Redeem(ctx, rec.OwnerID); err != nil {
		e.log.ErrorContext(ctx, "token consumed but fulfillment transition failed",
			slog.String("owner_id", rec.OwnerID.String()),
			slog.String("error", err.Error()),
		)
		return Result{
			Outcome: OutcomeFulfillmentFailed,
			OwnerID: rec.OwnerID,
			UsedAt:  consumed.UsedAt,
			Message: "The code was accepted but the order could not be completed. Please contact staff.",
		}, nil
	}

	return Result{
		Outcome: OutcomeRedeemed,
		OwnerID: rec.OwnerID,
		UsedAt:  consumed.UsedAt,
		Message: "Code accepted. Thank you!",
	}, nil
}

func (e *Engine) redeemableState(state string) bool {
	if len(e.readyStates) == 0 {
		return true
	}
	_, ok := e.readyStates[state]
	return ok
}
