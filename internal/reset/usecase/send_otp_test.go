package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOTP_Success(t *testing.T) {
	f := newFixture(t)

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "Alice@Example.com "})
	require.NoError(t, err)

	require.Len(t, f.store.records, 1)
	rec := f.store.records[0]
	assert.Equal(t, "alice@example.com", rec.Email)
	assert.Equal(t, testNow, rec.CreatedAt)
	assert.Equal(t, testNow.Add(10*time.Minute), rec.ExpiresAt)
	assert.False(t, rec.Used)

	// the stored proof must never equal the raw code
	assert.NotEqual(t, "482913", rec.CodeProof)
	assert.True(t, f.hmac.Verify(rec.CodeProof, "alice@example.com:482913"))

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].TextBody, "482913")
}

func TestSendOTP_UniformForUnknownEmail(t *testing.T) {
	f := newFixture(t)

	// no such account exists, yet the outcome is identical
	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "stranger@example.com"})
	require.NoError(t, err)
	assert.Len(t, f.store.records, 1)
	assert.Len(t, f.mail.sent, 1)
}

func TestSendOTP_MissingEmail(t *testing.T) {
	f := newFixture(t)

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "   "})
	assertGoError(t, err, goerror.CodeInvalidInput)
	assert.Empty(t, f.store.records)
	assert.Empty(t, f.mail.sent)
}

func TestSendOTP_SecondIssueSupersedes(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com"}))
	f.clock.T = testNow.Add(time.Minute)
	f.otp.code = "777123"
	require.NoError(t, f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com"}))

	require.Len(t, f.store.records, 2)

	latest, err := f.store.LatestUnused(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, f.hmac.Verify(latest.CodeProof, "alice@example.com:777123"))
}

func TestSendOTP_StoreFailureSkipsDelivery(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = assert.AnError

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com"})
	assertGoError(t, err, goerror.CodeInternal)
	assert.Empty(t, f.mail.sent)
}

func TestSendOTP_DeliveryFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.mail.sendErr = assert.AnError

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com"})
	assert.NoError(t, err)
	assert.Len(t, f.store.records, 1)
}

func TestSendOTP_RateLimited(t *testing.T) {
	f := newFixture(t)
	f.limiter.denied = map[string]bool{"email:alice@example.com": true}

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com"})
	assertGoError(t, err, goerror.CodeTooManyRequest)
	assert.Empty(t, f.store.records)
}

func TestSendOTP_RateLimitedByIP(t *testing.T) {
	f := newFixture(t)
	f.limiter.denied = map[string]bool{"ip:10.0.0.9": true}

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com", ClientIP: "10.0.0.9"})
	assertGoError(t, err, goerror.CodeTooManyRequest)
}

func TestSendOTP_LimiterOutageFailsOpen(t *testing.T) {
	f := newFixture(t)
	f.limiter.err = assert.AnError

	err := f.uc.SendOTP(context.Background(), SendOTPInput{Email: "alice@example.com"})
	assert.NoError(t, err)
	assert.Len(t, f.store.records, 1)
}
