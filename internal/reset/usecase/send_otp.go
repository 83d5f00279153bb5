package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/novapos/resetd/internal/pkg/mail"
	"github.com/novapos/resetd/internal/reset/entity"
	"github.com/sethvargo/go-retry"
)

type SendOTPInput struct {
	Email    string `validate:"required,email"`
	ClientIP string
}

// SendOTP issues a fresh one-time code for the given email.
//
// The response never reveals whether the email belongs to a real account;
// the record is created and the code delivered (or not) without consulting
// the identity provider. A failed delivery still reports success because the
// record already exists and the user can simply request again.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.checkRateLimit(ctx, in); err != nil {
		return err
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return goerror.NewServer(err)
	}

	proof, err := s.hmac.Hash(proofMessage(in.Email, code))
	if err != nil {
		slog.ErrorContext(ctx, "failed to compute code proof", "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.store.Create(ctx, entity.VerificationRecord{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		CodeProof: string(proof),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.GetMinute("otp.ttl_minutes")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to persist verification record", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	// Delivery failures are logged only; the record exists and a retry by
	// the user creates a newer superseding one.
	if err := s.deliverCode(ctx, in.Email, code); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp email", "email", in.Email, "error", err)
	}

	return nil
}

func (s *Usecase) checkRateLimit(ctx context.Context, in SendOTPInput) error {
	keys := []string{"email:" + in.Email}
	if in.ClientIP != "" {
		keys = append(keys, "ip:"+in.ClientIP)
	}

	for _, key := range keys {
		allowed, err := s.limiter.Allow(ctx, key)
		if err != nil {
			// A limiter outage must not block password resets.
			slog.WarnContext(ctx, "rate limiter unavailable", "key", key, "error", err)
			continue
		}
		if !allowed {
			slog.WarnContext(ctx, "otp request rate limited", "key", key)
			return goerror.NewBusiness("Too many OTP requests, try again later", goerror.CodeTooManyRequest)
		}
	}

	return nil
}

func (s *Usecase) deliverCode(ctx context.Context, email, code string) error {
	ttl := s.cfg.GetMinute("otp.ttl_minutes")
	msg := mail.Message{
		To:      []string{email},
		Subject: "Your password reset code",
		TextBody: fmt.Sprintf(
			"Your one-time code is %s. It expires in %d minutes.\n\nIf you did not request a password reset, you can ignore this email.",
			code, int(ttl.Minutes()),
		),
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.mailer.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
