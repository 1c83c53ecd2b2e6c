package email

import (
	"context"
	"log/slog"
)

// DevSender logs messages instead of delivering them. Used in development
// and as the fallback when no Postmark credentials are configured.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a logging-only sender.
func NewDevSender(log *slog.Logger) *DevSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

func (s *DevSender) Send(ctx context.Context, params SendParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "dev email sender: message not delivered",
		slog.String("to", params.To),
		slog.String("subject", params.Subject),
		slog.Int("body_bytes", len(params.BodyHTML)),
	)
	return nil
}
