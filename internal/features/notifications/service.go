// Package notifications formats and sends the visa lifecycle emails.
package notifications

import (
	"context"
	"fmt"
	"strings"

	"business-visa-backend/internal/common/logger"
	"business-visa-backend/internal/platform/mailer"
)

const (
	subjectClaimLink = "Your Business Visa is ready!"
	subjectExpired   = "Your business visa has been expired!"
	subjectActivated = "Your Business Visa is now active"
)

// Service sends visa emails to applicants and users.
type Service struct {
	sender      mailer.Sender
	from        string
	paymentLink string
}

func NewService(sender mailer.Sender, from, paymentLink string) *Service {
	return &Service{sender: sender, from: from, paymentLink: strings.TrimSpace(paymentLink)}
}

// NotifyClaimLink tells a freshly minted applicant where to claim the visa.
func (s *Service) NotifyClaimLink(ctx context.Context, to, claimLink string) error {
	return s.send(ctx, "claim_link", mailer.Message{
		To:      to,
		Subject: subjectClaimLink,
		Text:    fmt.Sprintf("Your Business Visa is ready! Claim it here: %s", claimLink),
	})
}

// NotifyExpired tells a user the visa expired and links the renewal payment page.
func (s *Service) NotifyExpired(ctx context.Context, to string) error {
	return s.send(ctx, "expired", mailer.Message{
		To:      to,
		Subject: subjectExpired,
		Text:    fmt.Sprintf("Your business visa nft has been expired please renew using this link! %s", s.paymentLink),
	})
}

// NotifyActivated confirms the visa was claimed into the applicant wallet.
func (s *Service) NotifyActivated(ctx context.Context, to, mintAddress string) error {
	text := "Your Business Visa has been claimed and is now active."
	if mintAddress != "" {
		text += fmt.Sprintf(" Mint address: %s", mintAddress)
	}
	return s.send(ctx, "activated", mailer.Message{
		To:      to,
		Subject: subjectActivated,
		Text:    text,
	})
}

func (s *Service) send(ctx context.Context, kind string, msg mailer.Message) error {
	msg.From = s.from
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("notify %s: %w", kind, err)
	}
	logger.Debug().
		Str("kind", kind).
		Str("to", msg.To).
		Str("message_id", id).
		Msg("Email sent")
	return nil
}
