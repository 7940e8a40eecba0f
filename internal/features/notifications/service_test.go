package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-visa-backend/internal/platform/mailer"
)

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, msg)
	return "msg-1", nil
}

func TestNotifyClaimLink(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "visa@example.com", "https://pay.example.com")

	require.NoError(t, svc.NotifyClaimLink(context.Background(), "ada@example.com", "https://claim/x"))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "visa@example.com", msg.From)
	assert.Equal(t, "Your Business Visa is ready!", msg.Subject)
	assert.Equal(t, "Your Business Visa is ready! Claim it here: https://claim/x", msg.Text)
}

func TestNotifyExpiredIncludesPaymentLink(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "visa@example.com", " https://pay.example.com ")

	require.NoError(t, svc.NotifyExpired(context.Background(), "ada@example.com"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Your business visa has been expired!", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Text, "https://pay.example.com")
}

func TestSendFailureIsReturned(t *testing.T) {
	boom := errors.New("resend down")
	svc := NewService(&recordingSender{err: boom}, "visa@example.com", "")

	err := svc.NotifyActivated(context.Background(), "ada@example.com", "mint-1")
	assert.ErrorIs(t, err, boom)
}
