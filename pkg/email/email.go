package email

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrFailedToSend  = errors.New("failed to send email")
	ErrInvalidConfig = errors.New("invalid email config")
	ErrInvalidParams = errors.New("invalid email params")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Sender delivers a single transactional email. Delivery is best-effort from
// the caller's perspective: a failed send is logged, never allowed to abort
// token issuance.
type Sender interface {
	Send(ctx context.Context, params SendParams) error
}

// SendParams describes one outbound message.
type SendParams struct {
	To       string
	Subject  string
	BodyHTML string
	Tag      string // optional delivery-stream tag
}

// Validate checks the minimum a message needs to be deliverable.
func (p SendParams) Validate() error {
	if !emailRegex.MatchString(p.To) {
		return errors.Join(ErrInvalidParams, errors.New("recipient address is not valid"))
	}
	if p.Subject == "" {
		return errors.Join(ErrInvalidParams, errors.New("subject is required"))
	}
	if p.BodyHTML == "" {
		return errors.Join(ErrInvalidParams, errors.New("body is required"))
	}
	return nil
}

// Config holds sender identity and Postmark credentials. Tokens are optional
// so development environments can run on the DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@localhost"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@localhost"`
}
