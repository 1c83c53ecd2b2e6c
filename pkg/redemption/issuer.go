package redemption

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/payload"
	"github.com/redeemkit/redeemkit/pkg/qrcode"
	"github.com/redeemkit/redeemkit/pkg/token"
)

// Issued is the product of one issuance: the persisted record, the encoded
// scan payload, and the rendered QR image. ImagePNG is nil when rendering
// failed; issuance itself never fails on a render error.
type Issued struct {
	Record   Record
	Payload  string
	ImagePNG []byte
	// Existing is true when the owner already held an active token and no
	// new record was minted.
	Existing bool
}

// Issuer mints tokens for a single token domain.
type Issuer struct {
	store      Store
	log        *slog.Logger
	now        func() time.Time
	tokenBytes int
	ttl        time.Duration // zero means tokens never expire
	level      qrcode.Level
	imageSize  int
	// payloadFunc builds the scannable string for a record. The default
	// encodes the versioned JSON payload; the pickup domain swaps in a
	// verify-URL builder.
	payloadFunc func(rec Record) (string, error)
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithTokenBytes sets the entropy of minted tokens.
func WithTokenBytes(n int) IssuerOption {
	return func(i *Issuer) {
		if n > 0 {
			i.tokenBytes = n
		}
	}
}

// WithTTL makes minted tokens expire after d. Zero keeps them valid forever.
func WithTTL(d time.Duration) IssuerOption {
	return func(i *Issuer) {
		if d > 0 {
			i.ttl = d
		}
	}
}

// WithImage sets the QR error-correction level and pixel size.
func WithImage(level qrcode.Level, size int) IssuerOption {
	return func(i *Issuer) {
		i.level = level
		if size > 0 {
			i.imageSize = size
		}
	}
}

// WithPayloadFunc replaces the default JSON payload with a custom scannable
// string, e.g. a verify URL embedding the token.
func WithPayloadFunc(fn func(rec Record) (string, error)) IssuerOption {
	return func(i *Issuer) {
		if fn != nil {
			i.payloadFunc = fn
		}
	}
}

// WithIssuerLogger attaches a structured logger for non-fatal render failures.
func WithIssuerLogger(log *slog.Logger) IssuerOption {
	return func(i *Issuer) {
		if log != nil {
			i.log = log
		}
	}
}

// WithIssuerClock overrides the time source, mainly for tests.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates an issuer over the given store.
func NewIssuer(store Store, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		store:      store,
		log:        slog.Default(),
		now:        time.Now,
		tokenBytes: token.DefaultByteLength,
		level:      qrcode.LevelMedium,
		imageSize:  256,
	}
	i.payloadFunc = func(rec Record) (string, error) {
		return payload.Encode(rec.Token, rec.IssuedAt, nil)
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue mints a token for the owner, or returns the owner's existing token
// when it is still active. The local uniqueness check is best-effort; the
// store constraint is authoritative, and a commit-time collision is retried
// once with a fresh token before being surfaced.
func (i *Issuer) Issue(ctx context.Context, ownerID uuid.UUID) (*Issued, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidRecord
	}

	now := i.now().UTC().Truncate(time.Second)

	existing, err := i.store.FindByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, ErrNoActiveToken) {
		return nil, err
	}
	if existing != nil && existing.Active(now) {
		issued, err := i.finish(ctx, *existing)
		if err != nil {
			return nil, err
		}
		issued.Existing = true
		return issued, nil
	}

	rec, err := i.mint(ctx, ownerID, now)
	if err != nil {
		if !errors.Is(err, ErrDuplicateToken) {
			return nil, err
		}
		// Lost the race against a concurrent issuance that picked the same
		// candidate. One re-generation is enough at this entropy.
		rec, err = i.mint(ctx, ownerID, now)
		if err != nil {
			return nil, err
		}
	}

	return i.finish(ctx, *rec)
}

func (i *Issuer) mint(ctx context.Context, ownerID uuid.UUID, now time.Time) (*Record, error) {
	t, err := token.GenerateUnique(ctx, TokenExists(i.store), i.tokenBytes)
	if err != nil {
		return nil, err
	}

	rec := Record{
		OwnerID:  ownerID,
		Token:    t,
		IssuedAt: now,
		Version:  payload.Version1,
	}
	if i.ttl > 0 {
		expires := now.Add(i.ttl)
		rec.ExpiresAt = &expires
	}

	return i.store.Create(ctx, rec)
}

func (i *Issuer) finish(ctx context.Context, rec Record) (*Issued, error) {
	text, err := i.payloadFunc(rec)
	if err != nil {
		return nil, err
	}

	out := &Issued{Record: rec, Payload: text}

	img, err := qrcode.Render(text, i.level, i.imageSize)
	if err != nil {
		// Rendering is best-effort: the token is already persisted and the
		// payload string can still be delivered or re-rendered later.
		i.log.WarnContext(ctx, "QR image rendering failed",
			slog.String("owner_id", rec.OwnerID.String()),
			slog.String("error", err.Error()),
		)
		return out, nil
	}
	out.ImagePNG = img
	return out, nil
}
