package inbound

import (
	"context"

	"github.com/novapos/resetd/internal/pkg/router"
	"github.com/novapos/resetd/internal/reset/usecase"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) error
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/send-otp", end.SendOTP)
	r.POST("/verify-otp", end.VerifyOTP)
}
