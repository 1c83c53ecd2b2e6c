package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeemkit/redeemkit/pkg/email"
)

func TestSendParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendParams{
		To:       "customer@example.com",
		Subject:  "Your pickup code",
		BodyHTML: "<p>hi</p>",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("bad recipient", func(t *testing.T) {
		p := valid
		p.To = "not-an-address"
		assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
	})

	t.Run("missing subject", func(t *testing.T) {
		p := valid
		p.Subject = ""
		assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
	})

	t.Run("missing body", func(t *testing.T) {
		p := valid
		p.BodyHTML = ""
		assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
	})
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	t.Run("missing tokens", func(t *testing.T) {
		_, err := email.NewPostmarkSender(email.Config{
			SenderEmail:  "noreply@example.com",
			SupportEmail: "support@example.com",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("bad sender address", func(t *testing.T) {
		_, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "nope",
			SupportEmail:         "support@example.com",
		})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("valid config", func(t *testing.T) {
		sender, err := email.NewPostmarkSender(email.Config{
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "noreply@example.com",
			SupportEmail:         "support@example.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender := email.NewDevSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := sender.Send(context.Background(), email.SendParams{
		To:       "customer@example.com",
		Subject:  "Your pickup code",
		BodyHTML: "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "customer@example.com")

	err = sender.Send(context.Background(), email.SendParams{To: "bad"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}
