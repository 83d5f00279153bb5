package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "", Port: 0})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	_, err = NewSMTP(SMTPConfig{Host: "smtp.example.com"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestSMTP_SendValidation(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrSMTPNoRecipients)

	err = s.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, ErrSMTPNoSender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, Message{To: []string{"a@example.com"}, From: "noreply@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDevLog_Send(t *testing.T) {
	d := NewDevLog()

	err := d.Send(context.Background(), Message{
		To:       []string{"a@example.com"},
		Subject:  "Password Reset",
		TextBody: "Your code is 123456",
	})
	assert.NoError(t, err)
	assert.NoError(t, d.Close())
}
