// Package mailer sends transactional email through Resend.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

var ErrNoRecipient = errors.New("mailer: message has no recipient")

type Message struct {
	To      string
	From    string
	Subject string
	Text    string
}

// Sender delivers one message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds a sender that uses from when a message leaves it empty.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", ErrNoRecipient
	}
	from := msg.From
	if from == "" {
		from = s.from
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return "", fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	return sent.Id, nil
}
