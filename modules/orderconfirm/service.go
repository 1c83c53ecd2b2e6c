package orderconfirm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/email"
	"github.com/redeemkit/redeemkit/pkg/qrcode"
	"github.com/redeemkit/redeemkit/pkg/redemption"
)

// Config holds the order-confirmation domain settings.
type Config struct {
	// TokenTTL bounds token validity; zero keeps confirmation codes valid
	// until redeemed, matching how order confirmations behave today.
	TokenTTL time.Duration `env:"ORDER_QR_TTL" envDefault:"0"`
	QRSize   int           `env:"ORDER_QR_SIZE" envDefault:"256"`
}

// Service is the order-confirmation token domain: a QR code is minted when
// an order's payment is confirmed, emailed to the customer, and redeemed
// once when the order is collected.
type Service struct {
	issuer *redemption.Issuer
	engine *redemption.Engine
	dir    Directory
	sender email.Sender
	log    *slog.Logger
}

// NewService wires the domain over its token store and order directory.
func NewService(cfg Config, store redemption.Store, dir Directory, sender email.Sender, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	issuerOpts := []redemption.IssuerOption{
		redemption.WithImage(qrcode.LevelMedium, cfg.QRSize),
		redemption.WithIssuerLogger(log),
	}
	if cfg.TokenTTL > 0 {
		issuerOpts = append(issuerOpts, redemption.WithTTL(cfg.TokenTTL))
	}

	return &Service{
		issuer: redemption.NewIssuer(store, issuerOpts...),
		engine: redemption.NewEngine(store, dir, redemption.WithEngineLogger(log)),
		dir:    dir,
		sender: sender,
		log:    log,
	}
}

// ConfirmPayment is invoked when an order's payment settles. It issues the
// confirmation token (idempotently: re-notification of the same payment
// returns the existing code) and emails the QR to the customer on first
// mint. Email failure never fails the confirmation.
func (s *Service) ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*redemption.Issued, error) {
	issued, err := s.issuer.Issue(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !issued.Existing {
		s.deliver(ctx, orderID, issued)
	}
	return issued, nil
}

// ResendCode re-sends the QR email on request, issuing a fresh token first
// if the previous one was spent or expired.
func (s *Service) ResendCode(ctx context.Context, orderID uuid.UUID) error {
	issued, err := s.issuer.Issue(ctx, orderID)
	if err != nil {
		return err
	}
	return s.send(ctx, orderID, issued)
}

// Present verifies scanned payload data on behalf of the given principal.
// The principal is required in this domain: a confirmation code only redeems
// for the customer who owns the order.
func (s *Service) Present(ctx context.Context, raw string, principal uuid.UUID) (redemption.Result, error) {
	return s.engine.VerifyScan(ctx, raw, &principal)
}

// deliver is the fire-and-forget path used on first issuance.
func (s *Service) deliver(ctx context.Context, orderID uuid.UUID, issued *redemption.Issued) {
	if err := s.send(ctx, orderID, issued); err != nil {
		s.log.WarnContext(ctx, "QR email delivery failed",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) send(ctx context.Context, orderID uuid.UUID, issued *redemption.Issued) error {
	addr, ok, err := s.dir.CustomerEmail(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("order %s has no customer email", orderID)
	}

	ref, err := s.dir.Reference(ctx, orderID)
	if err != nil {
		return err
	}

	body, err := confirmationEmailBody(ref, issued.Payload)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, email.SendParams{
		To:       addr,
		Subject:  fmt.Sprintf("Your confirmation code for order %s", ref),
		BodyHTML: body,
		Tag:      "order-confirmation-qr",
	})
}
