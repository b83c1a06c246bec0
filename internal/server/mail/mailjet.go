package mail

import (
	"context"
	"fmt"

	"github.com/mailjet/mailjet-apiv3-go/v4"
)

// MailjetMailer sends through the Mailjet v3.1 send API.
type MailjetMailer struct {
	from Address
	send func(*mailjet.MessagesV31) error
}

func NewMailjetMailer(apiKey, secretKey string, from Address) *MailjetMailer {
	client := mailjet.NewMailjetClient(apiKey, secretKey)
	return &MailjetMailer{
		from: from,
		send: func(m *mailjet.MessagesV31) error {
			_, err := client.SendMailV31(m)
			return err
		},
	}
}

// Send blocks until Mailjet answers; the client library has no context
// support, so ctx is only checked before the call.
func (m *MailjetMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: m.from.Email,
				Name:  m.from.Name,
			},
			To: &mailjet.RecipientsV31{
				{Email: to},
			},
			Subject:  subject,
			HTMLPart: html,
		},
	}}

	if err := m.send(&messages); err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}
	return nil
}
