package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/novapos/resetd/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Email       string `validate:"required,email"`
	OTP         string `validate:"required,otpcode"`
	NewPassword string `validate:"required,password"`
}

// VerifyOTP checks the submitted code against the latest unconsumed record
// and, if every gate passes, resets the account credential.
//
// Gate order matters: the record is consumed (used=false flipped to true
// atomically) before the identity provider is touched, so two concurrent
// attempts with the same code can never both reach the credential update.
// The cost is that a consumed record is spent even if the provider call
// later fails; the user then requests a fresh code.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) error {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	rec, err := s.store.LatestUnused(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("No OTP requested for this email", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch verification record", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if !s.clock.Now().Before(rec.ExpiresAt) {
		return goerror.NewBusiness("OTP expired", goerror.CodeInvalidInput)
	}

	if !s.hmac.Verify(rec.CodeProof, proofMessage(in.Email, in.OTP)) {
		return goerror.NewBusiness("Invalid OTP", goerror.CodeInvalidInput)
	}

	consumed, err := s.store.ConsumeUnused(ctx, rec.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume verification record", "record_id", rec.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !consumed {
		return goerror.NewBusiness("OTP already used", goerror.CodeInvalidInput)
	}

	ident, err := s.identity.FindByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verified otp for unknown identity", "email", in.Email)
		return goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve identity", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.identity.UpdatePassword(ctx, ident.ID, in.NewPassword); err != nil {
		slog.ErrorContext(ctx, "failed to update credential", "identity_id", ident.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
