// Package mailer sends workflow notification mail through Mailjet.
package mailer

import (
	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/rs/zerolog"
)

const senderName = "Headstone World"

// Config carries the Mailjet credentials and sender address.
type Config struct {
	APIKeyPublic  string
	APIKeyPrivate string
	FromEmail     string
}

// Mailer sends fire-and-forget notifications. Failures are logged, never
// retried.
type Mailer struct {
	client *mailjet.Client
	from   string
	logger zerolog.Logger
}

// New constructs a Mailjet-backed mailer.
func New(cfg Config, logger zerolog.Logger) *Mailer {
	return &Mailer{
		client: mailjet.NewMailjetClient(cfg.APIKeyPublic, cfg.APIKeyPrivate),
		from:   cfg.FromEmail,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// Notify sends one message to each recipient. Errors are logged per
// recipient and do not stop the remaining sends.
func (m *Mailer) Notify(recipients []string, subject, body string) {
	for _, recipient := range recipients {
		messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
			From:     &mailjet.RecipientV31{Email: m.from, Name: senderName},
			To:       &mailjet.RecipientsV31{{Email: recipient}},
			Subject:  subject,
			TextPart: body,
		}}}

		if _, err := m.client.SendMailV31(&messages); err != nil {
			m.logger.Error().Err(err).Str("recipient", recipient).Msg("notification send failed")
			continue
		}
		m.logger.Info().Str("recipient", recipient).Str("subject", subject).Msg("notification sent")
	}
}
