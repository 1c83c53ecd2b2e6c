package pickup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/email"
	"github.com/redeemkit/redeemkit/pkg/qrcode"
	"github.com/redeemkit/redeemkit/pkg/redemption"
)

// StateReady is the picking state that permits redemption.
const StateReady = "assigned"

// verifyPathPrefix is the path under which pickup QR codes resolve. The
// scanned payload is a full URL so any phone camera can open it.
const verifyPathPrefix = "/qr/verify/"

// Config holds the pickup domain settings.
type Config struct {
	// BaseURL is the public origin embedded in pickup QR codes.
	BaseURL string `env:"PICKUP_QR_BASE_URL,required"`
	// TokenTTL bounds how long an uncollected pickup code stays valid.
	TokenTTL time.Duration `env:"PICKUP_QR_TTL" envDefault:"336h"` // two weeks
	QRSize   int           `env:"PICKUP_QR_SIZE" envDefault:"256"`
}

// Service is the pickup-verification token domain: when a store-pickup order
// becomes ready, a single-use QR is minted and emailed; staff scan it at the
// counter, which validates the picking exactly once.
type Service struct {
	issuer   *redemption.Issuer
	engine   *redemption.Engine
	dir      Directory
	eligible Eligibility
	sender   email.Sender
	log      *slog.Logger
}

// NewService wires the domain over its token store and fulfillment directory.
func NewService(cfg Config, store redemption.Store, dir Directory, eligible Eligibility, sender email.Sender, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")

	issuer := redemption.NewIssuer(store,
		// URLs are longer than JSON payloads; the lower correction level
		// keeps the symbol density scannable on small screens.
		redemption.WithImage(qrcode.LevelLow, cfg.QRSize),
		redemption.WithTTL(cfg.TokenTTL),
		redemption.WithIssuerLogger(log),
		redemption.WithPayloadFunc(func(rec redemption.Record) (string, error) {
			return base + verifyPathPrefix + rec.Token, nil
		}),
	)

	return &Service{
		issuer:   issuer,
		engine:   redemption.NewEngine(store, dir, redemption.WithReadyStates(StateReady), redemption.WithEngineLogger(log)),
		dir:      dir,
		eligible: eligible,
		sender:   sender,
		log:      log,
	}
}

// MarkReady is invoked when a picking reaches the ready state. Ineligible
// pickings (not store pickup) are skipped silently; eligible ones get a
// token and, on first mint, the QR email. Returns nil Issued when skipped.
func (s *Service) MarkReady(ctx context.Context, pickingID uuid.UUID) (*redemption.Issued, error) {
	if s.eligible != nil {
		ok, err := s.eligible(ctx, pickingID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	issued, err := s.issuer.Issue(ctx, pickingID)
	if err != nil {
		return nil, err
	}

	if !issued.Existing {
		if err := s.send(ctx, pickingID, issued); err != nil {
			s.log.WarnContext(ctx, "pickup QR email delivery failed",
				slog.String("picking_id", pickingID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return issued, nil
}

// ResendCode re-sends the pickup QR email on request.
func (s *Service) ResendCode(ctx context.Context, pickingID uuid.UUID) error {
	issued, err := s.issuer.Issue(ctx, pickingID)
	if err != nil {
		return err
	}
	return s.send(ctx, pickingID, issued)
}

// Present redeems a scanned token. Scanners may hand over either the bare
// token or the full verify URL; no presenting principal is checked in this
// domain, since the scan happens on staff hardware at the counter.
func (s *Service) Present(ctx context.Context, scanned string) (redemption.Result, error) {
	return s.engine.VerifyToken(ctx, ExtractToken(scanned), nil)
}

// ExtractToken strips the verify-URL wrapping from scanned input, accepting
// bare tokens unchanged.
func ExtractToken(scanned string) string {
	scanned = strings.TrimSpace(scanned)
	if idx := strings.LastIndex(scanned, verifyPathPrefix); idx >= 0 {
		return scanned[idx+len(verifyPathPrefix):]
	}
	return scanned
}

func (s *Service) send(ctx context.Context, pickingID uuid.UUID, issued *redemption.Issued) error {
	addr, ok, err := s.dir.CustomerEmail(ctx, pickingID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("picking %s has no customer email", pickingID)
	}

	ref, err := s.dir.Reference(ctx, pickingID)
	if err != nil {
		return err
	}

	body, err := pickupEmailBody(ref, issued.Payload)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, email.SendParams{
		To:       addr,
		Subject:  fmt.Sprintf("Your order %s is ready for pickup", ref),
		BodyHTML: body,
		Tag:      "pickup-qr",
	})
}
